package grid

import "fmt"

// Marker is the SUNTANS edge boundary marker carried in column three of
// edges.dat.
type Marker int

const (
	MarkInterior    Marker = iota // shared computational edge
	MarkClosed                    // closed (land) edge
	MarkFlux                      // type-2: velocity specified
	MarkStage                     // type-3: free surface and scalars specified
	MarkFluxSegment               // type-2 edge pending a flux segment id
)

var MarkerNameMap = map[Marker]string{
	MarkInterior:    "interior",
	MarkClosed:      "closed",
	MarkFlux:        "type-2",
	MarkStage:       "type-3",
	MarkFluxSegment: "type-2 flux segment",
}

func (m Marker) String() string {
	if name, ok := MarkerNameMap[m]; ok {
		return name
	}
	return fmt.Sprintf("marker %d", int(m))
}

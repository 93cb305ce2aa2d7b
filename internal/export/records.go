package export

import (
	"github.com/woozymasta/scs-route-tool/internal/prefab"
)

// Graph records share their field names with the map dump reader, so a
// graph export can be loaded back as a dump. Tokens are written as numbers
// next to a readable name.

type itemRef struct {
	UID  uint64 `json:"Uid"`
	Type string `json:"Type"`
}

type nodeRecord struct {
	UID             uint64   `json:"Uid"`
	X               float64  `json:"X"`
	Z               float64  `json:"Z"`
	Rotation        float64  `json:"Rotation"`
	ForwardItemUID  uint64   `json:"ForwardItemUid"`
	BackwardItemUID uint64   `json:"BackwardItemUid"`
	ForwardItem     *itemRef `json:"ForwardItem"`
	BackwardItem    *itemRef `json:"BackwardItem"`
}

type roadRecord struct {
	UID           uint64  `json:"Uid"`
	X             float64 `json:"X"`
	Z             float64 `json:"Z"`
	Hidden        bool    `json:"Hidden"`
	StartNodeUID  uint64  `json:"StartNodeUid"`
	EndNodeUID    uint64  `json:"EndNodeUid"`
	RoadLook      uint64  `json:"RoadLook"`
	RoadLookName  string  `json:"RoadLookName"`
	Length        float64 `json:"Length"`
	Width         float64 `json:"Width"`
	Class         string  `json:"Class"`
	Bidirectional bool    `json:"Bidirectional"`
	Color         string  `json:"Color"`
	OutlineColor  string  `json:"OutlineColor"`
}

type navRecord struct {
	To     uint64    `json:"To"`
	Weight float64   `json:"Weight"`
	Items  []itemRef `json:"Items"`
}

type prefabItemRecord struct {
	UID        uint64      `json:"Uid"`
	X          float64     `json:"X"`
	Z          float64     `json:"Z"`
	Hidden     bool        `json:"Hidden"`
	Prefab     uint64      `json:"Prefab"`
	PrefabName string      `json:"PrefabName"`
	Nodes      []uint64    `json:"Nodes"`
	Origin     int         `json:"Origin"`
	Navigation []navRecord `json:"Navigation"`
}

type ferryPortRecord struct {
	UID      uint64  `json:"Uid"`
	X        float64 `json:"X"`
	Z        float64 `json:"Z"`
	Port     uint64  `json:"FerryPortId"`
	PortName string  `json:"FerryPortName"`
}

type cityItemRecord struct {
	UID      uint64  `json:"Uid"`
	X        float64 `json:"X"`
	Z        float64 `json:"Z"`
	Hidden   bool    `json:"Hidden"`
	City     uint64  `json:"City"`
	CityName string  `json:"CityName"`
	Width    float64 `json:"Width"`
	Height   float64 `json:"Height"`
}

type mapAreaRecord struct {
	UID    uint64   `json:"Uid"`
	X      float64  `json:"X"`
	Z      float64  `json:"Z"`
	Hidden bool     `json:"Hidden"`
	Nodes  []uint64 `json:"Nodes"`
	Color  int      `json:"Color"`
}

type prefabDefRecord struct {
	Token            uint64                  `json:"Token"`
	Name             string                  `json:"Name"`
	FilePath         string                  `json:"FilePath"`
	Category         string                  `json:"Category"`
	ValidRoad        bool                    `json:"ValidRoad"`
	Version          int                     `json:"Version"`
	PrefabNodes      []prefab.Node           `json:"PrefabNodes"`
	PrefabCurves     []prefab.Curve          `json:"PrefabCurves"`
	NavigationRoutes map[string]prefab.Route `json:"NavigationRoutes"`
}

type roadLookRecord struct {
	Token         uint64   `json:"Token"`
	Name          string   `json:"Name"`
	Title         string   `json:"Title"`
	LanesLeft     []string `json:"LanesLeft"`
	LanesRight    []string `json:"LanesRight"`
	Offset        float64  `json:"Offset"`
	Width         float64  `json:"Width"`
	Class         string   `json:"Class"`
	Bidirectional bool     `json:"Bidirectional"`
	Color         string   `json:"Color"`
	OutlineColor  string   `json:"OutlineColor"`
}

type ferryPointRecord struct {
	X        float64 `json:"X"`
	Z        float64 `json:"Z"`
	Rotation float64 `json:"Rotation"`
}

type ferryConnectionRecord struct {
	StartPort     uint64             `json:"StartPortToken"`
	StartPortName string             `json:"StartPortName"`
	EndPort       uint64             `json:"EndPortToken"`
	EndPortName   string             `json:"EndPortName"`
	Price         int                `json:"Price"`
	Time          int                `json:"Time"`
	Distance      int                `json:"Distance"`
	StartX        float64            `json:"StartPortLocationX"`
	StartZ        float64            `json:"StartPortLocationZ"`
	EndX          float64            `json:"EndPortLocationX"`
	EndZ          float64            `json:"EndPortLocationZ"`
	Points        []ferryPointRecord `json:"Connections"`
}

type cityRecord struct {
	Token          uint64            `json:"Token"`
	Name           string            `json:"Name"`
	LocalizedKey   string            `json:"LocalizationToken"`
	Country        string            `json:"Country"`
	CountryID      *int              `json:"CountryId,omitempty"`
	X              float64           `json:"X"`
	Y              float64           `json:"Y"`
	LocalizedNames map[string]string `json:"LocalizedNames,omitempty"`
}

type countryRecord struct {
	Token          uint64            `json:"Token"`
	Name           string            `json:"Name"`
	LocalizedKey   string            `json:"LocalizationToken"`
	CountryCode    string            `json:"CountryCode"`
	CountryID      int               `json:"CountryId"`
	X              float64           `json:"X"`
	Y              float64           `json:"Y"`
	LocalizedNames map[string]string `json:"LocalizedNames,omitempty"`
}

package brs

import (
	"github.com/google/uuid"
)

// Save format constants.
const (
	// magic identifies a .brs file.
	magic = "BRS"

	// saveVersion is the save format revision this package writes.
	saveVersion uint16 = 10

	// gameVersion is the game changelist recorded in the header.
	gameVersion int32 = 7870

	// MaxBrickExtent is the largest half-extent the game accepts for a
	// procedural brick axis, in tenths of a stud.
	MaxBrickExtent = 500
)

// DefaultOwnerID is the well-known generator identity bricks are
// attributed to when the caller does not supply one.
var DefaultOwnerID = uuid.MustParse("a1b16aca-9627-4a16-a160-67fa9adbb7b6")

// Brick asset names understood by the generator. Index positions match
// the AssetNameIndex values produced by the converter.
var DefaultAssets = []string{
	"PB_DefaultBrick",
	"PB_DefaultTile",
	"PB_DefaultMicroBrick",
	"PB_DefaultStudded",
}

// Asset indexes into DefaultAssets.
const (
	AssetBrick uint32 = iota
	AssetTile
	AssetMicroBrick
	AssetStudded
)

// Material names referenced by MaterialIndex.
var DefaultMaterials = []string{
	"BMC_Plastic",
	"BMC_Glow",
}

// Material indexes into DefaultMaterials.
const (
	MaterialPlastic uint32 = iota
	MaterialGlow
)

// Color is an RGBA brick color, stored linear.
type Color struct {
	R, G, B, A uint8
}

// Collision holds the per-channel collision flags of a brick.
type Collision struct {
	Player      bool
	Weapon      bool
	Interaction bool
	Tool        bool
}

// Brick is a single axis-aligned procedural brick.
type Brick struct {
	AssetNameIndex uint32
	// Size holds the half-extents along x, y, z in tenths of a stud.
	Size     [3]uint32
	Position [3]int32
	// Direction and Rotation combine into one of 24 orientations.
	Direction         uint8
	Rotation          uint8
	Collision         Collision
	Visibility        bool
	MaterialIndex     uint32
	MaterialIntensity uint32
	Color             Color
	// OwnerIndex is 1-based into the owner table; 0 means public.
	OwnerIndex uint32
}

// User identifies a save author or brick owner.
type User struct {
	ID   uuid.UUID
	Name string
}

// BrickOwner is a User plus the number of bricks attributed to them.
type BrickOwner struct {
	User
	BrickCount int32
}

// SaveData is everything needed to write a save file.
type SaveData struct {
	Map         string
	Author      User
	Description string
	Mods        []string
	Assets      []string
	Materials   []string
	Owners      []BrickOwner
	Bricks      []Brick
}

// NewSaveData assembles a SaveData around the given bricks with the
// default asset and material tables and a single owner. A zero owner ID
// falls back to DefaultOwnerID, an empty name to "Generator".
func NewSaveData(bricks []Brick, ownerID uuid.UUID, ownerName string) *SaveData {
	if ownerID == uuid.Nil {
		ownerID = DefaultOwnerID
	}
	if ownerName == "" {
		ownerName = "Generator"
	}
	owner := User{ID: ownerID, Name: ownerName}
	return &SaveData{
		Map:         "Plate",
		Author:      owner,
		Description: "Generated heightmap",
		Assets:      append([]string(nil), DefaultAssets...),
		Materials:   append([]string(nil), DefaultMaterials...),
		Owners: []BrickOwner{
			{User: owner, BrickCount: int32(len(bricks))},
		},
		Bricks: bricks,
	}
}

package valueobjects

import "fmt"

type BlockType string

const (
	BlockTypeMaintenance BlockType = "maintenance"
	BlockTypeRenovation  BlockType = "renovation"
	BlockTypeVIPHold     BlockType = "vip_hold"
	BlockTypeLongStay    BlockType = "long_stay"
	BlockTypeStaff       BlockType = "staff"
	BlockTypeInspection  BlockType = "inspection"
	BlockTypeDeepClean   BlockType = "deep_clean"
)

var validBlockTypes = map[BlockType]bool{
	BlockTypeMaintenance: true,
	BlockTypeRenovation:  true,
	BlockTypeVIPHold:     true,
	BlockTypeLongStay:    true,
	BlockTypeStaff:       true,
	BlockTypeInspection:  true,
	BlockTypeDeepClean:   true,
}

func (t BlockType) String() string {
	return string(t)
}

func (t BlockType) IsValid() bool {
	return validBlockTypes[t]
}

func NewBlockType(s string) (BlockType, error) {
	t := BlockType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid block type: %s", s)
	}
	return t, nil
}

package mappers

import (
	"fmt"
	"strconv"
	"strings"

	alloc "innkeep/internal/domain/allocation"
	"innkeep/internal/infrastructure/persistence/models"
)

type PreferenceMapper interface {
	ToEntity(model *models.GuestPreferenceModel) (*alloc.GuestRoomPreferences, error)
	ToModel(prefs *alloc.GuestRoomPreferences) *models.GuestPreferenceModel
}

type preferenceMapper struct{}

func NewPreferenceMapper() PreferenceMapper {
	return &preferenceMapper{}
}

func (m *preferenceMapper) ToEntity(model *models.GuestPreferenceModel) (*alloc.GuestRoomPreferences, error) {
	if model == nil {
		return nil, nil
	}

	preferredTypes, err := splitUints(model.PreferredRoomTypes)
	if err != nil {
		return nil, fmt.Errorf("guest %d has malformed preferred room types: %w", model.GuestID, err)
	}
	avoidedTypes, err := splitUints(model.AvoidedRoomTypes)
	if err != nil {
		return nil, fmt.Errorf("guest %d has malformed avoided room types: %w", model.GuestID, err)
	}
	preferredRooms, err := splitUints(model.PreferredRooms)
	if err != nil {
		return nil, fmt.Errorf("guest %d has malformed preferred rooms: %w", model.GuestID, err)
	}
	avoidedRooms, err := splitUints(model.AvoidedRooms)
	if err != nil {
		return nil, fmt.Errorf("guest %d has malformed avoided rooms: %w", model.GuestID, err)
	}
	preferredFloors, err := splitInts(model.PreferredFloors)
	if err != nil {
		return nil, fmt.Errorf("guest %d has malformed preferred floors: %w", model.GuestID, err)
	}

	return &alloc.GuestRoomPreferences{
		GuestID:            model.GuestID,
		SchemaVersion:      model.SchemaVersion,
		PreferredRoomTypes: preferredTypes,
		AvoidedRoomTypes:   avoidedTypes,
		PreferredFloors:    preferredFloors,
		PreferredRooms:     preferredRooms,
		AvoidedRooms:       avoidedRooms,
		PreferredFeatures:  splitList(model.PreferredFeatures),
		NeedsAccessible:    model.NeedsAccessible,
		PriorityLevel:      model.PriorityLevel,
	}, nil
}

func (m *preferenceMapper) ToModel(prefs *alloc.GuestRoomPreferences) *models.GuestPreferenceModel {
	if prefs == nil {
		return nil
	}

	return &models.GuestPreferenceModel{
		GuestID:            prefs.GuestID,
		SchemaVersion:      prefs.SchemaVersion,
		PreferredRoomTypes: joinUints(prefs.PreferredRoomTypes),
		AvoidedRoomTypes:   joinUints(prefs.AvoidedRoomTypes),
		PreferredFloors:    joinInts(prefs.PreferredFloors),
		PreferredRooms:     joinUints(prefs.PreferredRooms),
		AvoidedRooms:       joinUints(prefs.AvoidedRooms),
		PreferredFeatures:  joinList(prefs.PreferredFeatures),
		NeedsAccessible:    prefs.NeedsAccessible,
		PriorityLevel:      prefs.PriorityLevel,
	}
}

func splitUints(s string) ([]uint, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]uint, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 32)
		if err != nil {
			return nil, err
		}
		out = append(out, uint(v))
	}
	return out, nil
}

func splitInts(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func joinUints(items []uint) string {
	parts := make([]string, 0, len(items))
	for _, v := range items {
		parts = append(parts, strconv.FormatUint(uint64(v), 10))
	}
	return strings.Join(parts, ",")
}

func joinInts(items []int) string {
	parts := make([]string, 0, len(items))
	for _, v := range items {
		parts = append(parts, strconv.Itoa(v))
	}
	return strings.Join(parts, ",")
}

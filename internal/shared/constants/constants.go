package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// Database table names
	TableRoomAllocations      = "room_allocations"
	TableRoomBlocks           = "room_blocks"
	TableAllocationHistory    = "allocation_history"
	TableAllocationAlerts     = "allocation_alerts"
	TableGuestRoomPreferences = "guest_room_preferences"
	TableAllocationRules      = "allocation_rules"
)

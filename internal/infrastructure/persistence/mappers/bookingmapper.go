package mappers

import (
	"innkeep/internal/domain/booking"
	"innkeep/internal/infrastructure/persistence/models"
)

// BookingViewFromModel converts an external booking row to the engine's read
// view. Views are plain values, so no error path exists.
func BookingViewFromModel(model *models.BookingModel) booking.BookingView {
	view := booking.BookingView{
		ID:              model.ID,
		Status:          model.Status,
		CheckInDate:     model.CheckInDate,
		CheckOutDate:    model.CheckOutDate,
		RoomTypeID:      model.RoomTypeID,
		GuestID:         model.GuestID,
		GuestName:       model.GuestName,
		IsVIP:           model.IsVIP,
		IsGuaranteed:    model.IsGuaranteed,
		SpecialRequests: model.SpecialRequests,
		ShiftType:       booking.ShiftType(model.ShiftType),
		ShiftDate:       model.ShiftDate,
	}
	if model.CheckInTime != nil {
		view.CheckInTime = *model.CheckInTime
	}
	if view.ShiftType == "" {
		view.ShiftType = booking.ShiftTypeDate
	}
	return view
}

// RoomViewFromModel converts an external room row to the engine's read view.
func RoomViewFromModel(model *models.RoomModel) booking.RoomView {
	return booking.RoomView{
		ID:         model.ID,
		RoomNumber: model.RoomNumber,
		RoomTypeID: model.RoomTypeID,
		Floor:      model.Floor,
		Status:     model.Status,
		IsActive:   model.IsActive,
	}
}

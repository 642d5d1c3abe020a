package model

type RoomStatus string

const (
	RoomStatusAvailable RoomStatus = "available"
	RoomStatusOccupied  RoomStatus = "occupied"
	RoomStatusCleaning  RoomStatus = "cleaning"
)

type Room struct {
	Base
	Name      string  `db:"name" json:"name"`
	Status    string  `db:"status" json:"status"`
	Type      *string `db:"type" json:"type,omitempty"`
	PatientID *int64  `db:"patient_id" json:"patient,omitempty"`
}

type CreateRoomRequest struct {
	Name      string  `json:"name" binding:"required"`
	Status    string  `json:"status" binding:"omitempty,oneof=available occupied cleaning"`
	Type      *string `json:"type"`
	PatientID *int64  `json:"patient"`
}

type UpdateRoomRequest struct {
	Name      *string `json:"name"`
	Status    *string `json:"status" binding:"omitempty,oneof=available occupied cleaning"`
	Type      *string `json:"type"`
	PatientID *int64  `json:"patient"`
}

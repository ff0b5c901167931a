package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&Session{},
	&RecordedCommand{},
}

// Session is one recorded encounter. Command times are offsets from Epoch.
type Session struct {
	gorm.Model
	Name     string    `json:"name" gorm:"size:200;uniqueIndex"`
	Epoch    time.Time `json:"epoch"`
	Commands []RecordedCommand
}

func (*Session) TableName() string {
	return "sessions"
}

// RecordedCommand is one raw command as received from the event source.
type RecordedCommand struct {
	ID         uint           `json:"id" gorm:"primarykey;autoIncrement"`
	SessionID  uint           `json:"sessionId" gorm:"uniqueIndex:idx_session_seq"`
	Session    Session        `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:SessionID;"`
	Seq        uint           `json:"seq" gorm:"uniqueIndex:idx_session_seq"`
	Command    string         `json:"command" gorm:"size:64;index"`
	Args       datatypes.JSON `json:"args"`
	ReceivedAt time.Time      `json:"receivedAt"`
}

func (*RecordedCommand) TableName() string {
	return "recorded_commands"
}

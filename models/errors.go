package models

import "errors"

var (
	ErrLeadNotFound = errors.New("lead not found")
	ErrSlotTaken    = errors.New("slot already confirmed")
)

package handler

import (
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"workspace-service/internal/model"
	"workspace-service/internal/tenant"
)

// attendeeRef is the tagged form of one polymorphic attendee entry:
// either an email or a numeric user id.
type attendeeRef struct {
	email  string
	userID uint
}

// classifyAttendee maps a raw JSON attendee entry to a reference.
// Strings containing "@" are emails, numeric-looking entries are user
// ids. Anything else is unrecognized and skipped by the caller.
func classifyAttendee(entry interface{}) (attendeeRef, bool) {
	switch v := entry.(type) {
	case string:
		if strings.Contains(v, "@") {
			return attendeeRef{email: v}, true
		}
		if id, err := strconv.ParseUint(v, 10, 32); err == nil && id > 0 {
			return attendeeRef{userID: uint(id)}, true
		}
		return attendeeRef{}, false
	case float64:
		// JSON numbers decode as float64.
		if v > 0 && v == float64(uint(v)) {
			return attendeeRef{userID: uint(v)}, true
		}
		return attendeeRef{}, false
	case int:
		if v > 0 {
			return attendeeRef{userID: uint(v)}, true
		}
		return attendeeRef{}, false
	default:
		return attendeeRef{}, false
	}
}

// resolveAttendees maps the attendee list to existing tenant user ids.
// Entries that resolve to no tenant user are dropped silently.
func resolveAttendees(tx *gorm.DB, tc *tenant.Context, entries []interface{}) ([]uint, error) {
	ids := make([]uint, 0, len(entries))
	seen := make(map[uint]bool, len(entries))

	for _, entry := range entries {
		ref, ok := classifyAttendee(entry)
		if !ok {
			continue
		}

		var user model.User
		var err error
		if ref.email != "" {
			err = tx.
				Where("email = ? AND client_id = ? AND app_id = ?", ref.email, tc.ClientID, tc.AppID).
				First(&user).Error
		} else {
			err = tx.
				Where("id = ? AND client_id = ? AND app_id = ?", ref.userID, tc.ClientID, tc.AppID).
				First(&user).Error
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		if !seen[user.ID] {
			seen[user.ID] = true
			ids = append(ids, user.ID)
		}
	}

	return ids, nil
}

// insertAttendees creates pending attendee rows for an event.
func insertAttendees(tx *gorm.DB, eventID uint, userIDs []uint) error {
	if len(userIDs) == 0 {
		return nil
	}

	attendees := make([]model.EventAttendee, 0, len(userIDs))
	for _, userID := range userIDs {
		attendees = append(attendees, model.EventAttendee{
			EventID: eventID,
			UserID:  userID,
			Status:  "pending",
		})
	}
	return tx.Create(&attendees).Error
}

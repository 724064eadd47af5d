package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"taskdesk/internal/service"
)

// flexID decodes a task ID sent as either a JSON number or a JSON string.
type flexID string

func (id *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid task id %s", data)
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return fmt.Errorf("invalid task id %s", data)
	}
	*id = flexID(n.String())
	return nil
}

// taskDTO is a task as it appears on the wire.
type taskDTO struct {
	ID          flexID `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

func (d taskDTO) toTask() service.Task {
	return service.Task{
		ID:          string(d.ID),
		Title:       d.Title,
		Description: d.Description,
		Status:      service.Status(d.Status),
	}
}

type draftDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// changesDTO carries only the fields present in a service.Changes.
type changesDTO struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

func newChangesDTO(c service.Changes) changesDTO {
	dto := changesDTO{Title: c.Title, Description: c.Description}
	if c.Status != nil {
		s := string(*c.Status)
		dto.Status = &s
	}
	return dto
}

package settings

import "encoding/json"

type SetSettingRequest struct {
	Value json.RawMessage `json:"value" binding:"required"`
}

type SettingResponse struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

type ClearDataRequest struct {
	Collections []string `json:"collections" binding:"required,min=1"`
}

type ClearDataResponse struct {
	Cleared []string `json:"cleared"`
}

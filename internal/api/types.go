// File path: internal/api/types.go
package api

import (
	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/advisor"
	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/converter"
)

type convertRequest struct {
	Name   string `json:"name,omitempty"`
	Source string `json:"source"`
	Advise bool   `json:"advise,omitempty"`
}

type convertResponse struct {
	converter.Result
	Notes []advisor.Note `json:"notes,omitempty"`
}

type batchRequest struct {
	InputDir  string `json:"input_dir"`
	OutputDir string `json:"output_dir"`
	Advise    bool   `json:"advise,omitempty"`
}

type adviseRequest struct {
	Name         string `json:"name,omitempty"`
	Source       string `json:"source,omitempty"`
	ConversionID int64  `json:"conversion_id,omitempty"`
}

type adviseResponse struct {
	Component string         `json:"component"`
	Notes     []advisor.Note `json:"notes"`
}

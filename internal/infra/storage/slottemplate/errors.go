package slottemplate

import "errors"

var (
	// ErrTemplateNotFound возвращается, когда у врача нет сохранённого шаблона
	ErrTemplateNotFound = errors.New("slottemplate.repository: template not found")
	ErrBuildQuery       = errors.New("slottemplate.repository: failed to build query")
	ErrExecQuery        = errors.New("slottemplate.repository: failed to execute query")
	ErrScanRow          = errors.New("slottemplate.repository: failed to scan row")
)

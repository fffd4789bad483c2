package schema

import "errors"

// ServiceConfig defines defaults and limits for the core service.
type ServiceConfig struct {
	DefaultType    DocumentType
	SupportedTypes []DocumentType
	// HistoryMax caps the activation history; oldest entries are dropped first.
	HistoryMax int
	// ClosedMax caps the reopen-last-tab stack.
	ClosedMax int
	// PreserveActiveOnClose keeps the active tab when a background tab closes.
	// By default every close moves activation to the closed tab's neighbor.
	PreserveActiveOnClose bool
}

const (
	// DefaultHistoryMax is the default activation history cap.
	DefaultHistoryMax = 50
	// DefaultClosedMax is the default reopen stack cap.
	DefaultClosedMax = 20
)

// NormalizeServiceConfig applies defaults and validates the config.
func NormalizeServiceConfig(cfg ServiceConfig) (ServiceConfig, error) {
	if len(cfg.SupportedTypes) == 0 {
		cfg.SupportedTypes = []DocumentType{DocumentBPMN, DocumentDMN, DocumentCMMN}
	}
	types := make([]DocumentType, 0, len(cfg.SupportedTypes))
	seen := make(map[DocumentType]bool, len(cfg.SupportedTypes))
	for _, raw := range cfg.SupportedTypes {
		docType, err := NormalizeDocumentType(string(raw))
		if err != nil {
			return ServiceConfig{}, err
		}
		if seen[docType] {
			continue
		}
		seen[docType] = true
		types = append(types, docType)
	}
	cfg.SupportedTypes = types
	if cfg.DefaultType == "" {
		cfg.DefaultType = cfg.SupportedTypes[0]
	}
	defaultType, err := NormalizeDocumentType(string(cfg.DefaultType))
	if err != nil {
		return ServiceConfig{}, err
	}
	if !seen[defaultType] {
		return ServiceConfig{}, errors.New("default document type must be one of the supported types")
	}
	cfg.DefaultType = defaultType
	if cfg.HistoryMax <= 0 {
		cfg.HistoryMax = DefaultHistoryMax
	}
	if cfg.ClosedMax <= 0 {
		cfg.ClosedMax = DefaultClosedMax
	}
	return cfg, nil
}

// Supports reports whether docType is enabled by the config.
func (c ServiceConfig) Supports(docType DocumentType) bool {
	for _, t := range c.SupportedTypes {
		if t == docType {
			return true
		}
	}
	return false
}

package schema

import (
	"errors"
	"testing"
)

func TestDocumentTypeForName(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  DocumentType
		valid bool
	}{
		{"bpmn", "1.bpmn", DocumentBPMN, true},
		{"upper", "Order.DMN", DocumentDMN, true},
		{"nested", "/work/case.cmmn", DocumentCMMN, true},
		{"no-ext", "README", "", false},
		{"dot-only", "diagram.", "", false},
		{"symbol", "a.bp$mn", "", false},
	}

	for _, tc := range cases {
		got, err := DocumentTypeForName(tc.input)
		if tc.valid && err != nil {
			t.Fatalf("case %q expected valid, got error: %v", tc.name, err)
		}
		if !tc.valid {
			if !errors.Is(err, ErrUnsupportedType) {
				t.Fatalf("case %q expected unsupported type, got %v", tc.name, err)
			}
			continue
		}
		if got != tc.want {
			t.Fatalf("case %q expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestNormalizeServiceConfigDefaults(t *testing.T) {
	cfg, err := NormalizeServiceConfig(ServiceConfig{})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.DefaultType != DocumentBPMN {
		t.Fatalf("expected default type bpmn, got %q", cfg.DefaultType)
	}
	if len(cfg.SupportedTypes) != 3 {
		t.Fatalf("expected 3 supported types, got %v", cfg.SupportedTypes)
	}
	if cfg.HistoryMax != DefaultHistoryMax || cfg.ClosedMax != DefaultClosedMax {
		t.Fatalf("unexpected caps: %+v", cfg)
	}
}

func TestNormalizeServiceConfigRejectsUnknownDefault(t *testing.T) {
	_, err := NormalizeServiceConfig(ServiceConfig{
		DefaultType:    "cmmn",
		SupportedTypes: []DocumentType{"BPMN", "dmn", "bpmn"},
	})
	if err == nil {
		t.Fatalf("expected error for default type outside supported set")
	}
	cfg, err := NormalizeServiceConfig(ServiceConfig{SupportedTypes: []DocumentType{"DMN", "dmn"}})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(cfg.SupportedTypes) != 1 || cfg.DefaultType != DocumentDMN {
		t.Fatalf("expected deduped dmn config, got %+v", cfg)
	}
}

func TestWorkspaceSnapshotActiveIndex(t *testing.T) {
	snap := WorkspaceSnapshot{Files: []WorkspaceFile{{Name: "1.bpmn", Path: "1.bpmn"}}}
	if snap.ActiveIndex() != -1 {
		t.Fatalf("expected -1 without active tab")
	}
	snap.ActiveTab = IndexPtr(0)
	if snap.ActiveIndex() != 0 {
		t.Fatalf("expected active index 0, got %d", snap.ActiveIndex())
	}
	if IndexPtr(-1) != nil {
		t.Fatalf("expected nil pointer for negative index")
	}
	descs := snap.Descriptors()
	if len(descs) != 1 || descs[0].Path != "1.bpmn" {
		t.Fatalf("unexpected descriptors: %+v", descs)
	}
}

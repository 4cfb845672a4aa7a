package structure

import (
	"fmt"
	"net/url"
	"strings"
)

// ScopeKind selects which structure a scope addresses.
type ScopeKind string

const (
	ScopeTemplate ScopeKind = "template"
	ScopeDraft    ScopeKind = "draft"
	ScopeProject  ScopeKind = "project"
)

// Scope addresses one structure: the shared template, a draft override or a
// project override. Build it with TemplateScope, DraftScope or ProjectScope.
type Scope struct {
	Kind         ScopeKind
	ID           string
	DocumentType string
}

// TemplateScope addresses the shared default structure.
func TemplateScope(documentType string) Scope {
	return Scope{Kind: ScopeTemplate, DocumentType: documentType}
}

// DraftScope addresses the structure of one draft.
func DraftScope(id, documentType string) Scope {
	return Scope{Kind: ScopeDraft, ID: id, DocumentType: documentType}
}

// ProjectScope addresses the structure of one project.
func ProjectScope(id, documentType string) Scope {
	return Scope{Kind: ScopeProject, ID: id, DocumentType: documentType}
}

// SelectScope applies the draft > project > template priority to nullable ids.
func SelectScope(draftID, projectID, documentType string) Scope {
	if id := strings.TrimSpace(draftID); id != "" {
		return DraftScope(id, documentType)
	}
	if id := strings.TrimSpace(projectID); id != "" {
		return ProjectScope(id, documentType)
	}
	return TemplateScope(documentType)
}

// Validate checks the kind/id combination.
func (s Scope) Validate() error {
	switch s.Kind {
	case ScopeTemplate:
		if s.ID != "" {
			return fmt.Errorf("%w: template scope carries id %q", ErrInvalidScope, s.ID)
		}
	case ScopeDraft, ScopeProject:
		if strings.TrimSpace(s.ID) == "" {
			return fmt.Errorf("%w: %s scope requires an id", ErrInvalidScope, s.Kind)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidScope, s.Kind)
	}
	return nil
}

// Customizable reports whether the scope can hold its own structure.
func (s Scope) Customizable() bool {
	return s.Kind == ScopeDraft || s.Kind == ScopeProject
}

// Path returns the load path relative to the API prefix.
func (s Scope) Path() string {
	switch s.Kind {
	case ScopeDraft:
		return "/draft/" + url.PathEscape(s.ID)
	case ScopeProject:
		return "/project/" + url.PathEscape(s.ID)
	default:
		return "/template"
	}
}

// Query returns the documentType filter, or nil when unset.
func (s Scope) Query() url.Values {
	if s.DocumentType == "" {
		return nil
	}
	return url.Values{"documentType": []string{s.DocumentType}}
}

// Owner returns the project/draft ids a new step or field must carry.
func (s Scope) Owner() (projectID, draftID string) {
	switch s.Kind {
	case ScopeDraft:
		return "", s.ID
	case ScopeProject:
		return s.ID, ""
	}
	return "", ""
}

func (s Scope) String() string {
	out := string(s.Kind)
	if s.ID != "" {
		out += ":" + s.ID
	}
	if s.DocumentType != "" {
		out += "?" + s.DocumentType
	}
	return out
}

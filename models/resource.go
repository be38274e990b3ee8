package models

import (
	"strings"
	"time"
)

// MaxTags is the largest number of distinct tags a resource may carry.
const MaxTags = 10

type ResourceType string

const (
	TypeNotes       ResourceType = "notes"
	TypePapers      ResourceType = "papers"
	TypeProjects    ResourceType = "projects"
	TypeBooks       ResourceType = "books"
	TypeAssignments ResourceType = "assignments"
	TypeMaterials   ResourceType = "materials"
	TypeOther       ResourceType = "other"
)

// TypeInfo is one entry of the type registry shown to clients.
type TypeInfo struct {
	ID    ResourceType `json:"id"`
	Label string       `json:"label"`
}

// ResourceTypes is the registry of every valid resource type, in display order.
var ResourceTypes = []TypeInfo{
	{TypeNotes, "Notes"},
	{TypePapers, "Question Papers"},
	{TypeProjects, "Projects"},
	{TypeBooks, "Books"},
	{TypeAssignments, "Assignments"},
	{TypeMaterials, "Study Materials"},
	{TypeOther, "Other"},
}

func (t ResourceType) Valid() bool {
	for _, info := range ResourceTypes {
		if info.ID == t {
			return true
		}
	}
	return false
}

// Label returns the display label, or the raw id for unknown types.
func (t ResourceType) Label() string {
	for _, info := range ResourceTypes {
		if info.ID == t {
			return info.Label
		}
	}
	return string(t)
}

type Privacy string

const (
	PrivacyPublic  Privacy = "public"
	PrivacyPrivate Privacy = "private"
)

func (p Privacy) Valid() bool {
	return p == PrivacyPublic || p == PrivacyPrivate
}

// Resource is the metadata record of a shared academic file.
type Resource struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Subject       string       `json:"subject"`
	Description   string       `json:"description"`
	Type          ResourceType `json:"type"`
	Semester      string       `json:"semester,omitempty"`
	Year          string       `json:"year,omitempty"`
	Branch        string       `json:"branch,omitempty"`
	Tags          []string     `json:"tags"`
	Privacy       Privacy      `json:"privacy"`
	Link          string       `json:"link,omitempty"`
	FileName      string       `json:"fileName,omitempty"`
	FileSize      int64        `json:"fileSize,omitempty"`
	Author        string       `json:"author"`
	AuthorID      string       `json:"authorId,omitempty"`
	AuthorCollege string       `json:"authorCollege"`
	Likes         int64        `json:"likes"`
	Downloads     int64        `json:"downloads"`
	// Rating is a seed value carried by imported records. It is only shown
	// while the resource has no reviews.
	Rating    float64   `json:"rating,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Clone returns a copy that shares no slices with r.
func (r Resource) Clone() Resource {
	if r.Tags != nil {
		r.Tags = append([]string(nil), r.Tags...)
	}
	return r
}

// ResourceInput carries the caller-supplied fields of a new resource.
type ResourceInput struct {
	Title       string
	Subject     string
	Description string
	Type        ResourceType
	Semester    string
	Year        string
	Branch      string
	Tags        []string
	Privacy     Privacy
	Link        string
	FileName    string
	FileSize    int64
	Author      Identity
}

// ResourcePatch holds the mutable fields of a resource; nil fields are left unchanged.
type ResourcePatch struct {
	Title       *string
	Subject     *string
	Description *string
	Type        *ResourceType
	Semester    *string
	Year        *string
	Branch      *string
	Tags        *[]string
	Privacy     *Privacy
	Link        *string
}

// NormalizeTags trims, lower-cases and de-duplicates tags, keeping first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

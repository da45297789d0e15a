package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/pratham-8123/vaultbox/internal/identity"
)

// Timestamp unmarshals the server's timestamps, which arrive either as
// RFC 3339 or as a zone-less ISO local datetime.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(time.RFC3339Nano) + `"`), nil
}

// FolderRef identifies a folder in a user's tree.
type FolderRef struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ParentID   *string   `json:"parentId"`
	OwnerID    string    `json:"ownerId"`
	OwnerEmail string    `json:"ownerEmail,omitempty"`
	Path       string    `json:"path,omitempty"`
	CreatedAt  Timestamp `json:"createdAt"`
}

// FileRef identifies an uploaded file. Viewable is server-declared and is
// never recomputed on the client.
type FileRef struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	OwnerID     string    `json:"ownerId"`
	OwnerEmail  string    `json:"ownerEmail,omitempty"`
	UploadedAt  Timestamp `json:"uploadedAt"`
	Viewable    bool      `json:"viewable"`
}

// BreadcrumbItem is one entry of the ancestor path. The synthetic root has a
// nil ID.
type BreadcrumbItem struct {
	ID   *string `json:"id"`
	Name string  `json:"name"`
}

// FolderView is the server's answer to a browse request.
type FolderView struct {
	CurrentFolder *FolderRef       `json:"currentFolder"`
	Breadcrumb    []BreadcrumbItem `json:"breadcrumb"`
	Folders       []FolderRef      `json:"folders"`
	Files         []FileRef        `json:"files"`
}

// ItemType distinguishes search result rows.
type ItemType string

const (
	ItemFolder ItemType = "FOLDER"
	ItemFile   ItemType = "FILE"
)

// SearchResult is one row of a search response; file-only fields are zero for
// folders.
type SearchResult struct {
	Type        ItemType  `json:"type"`
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ParentID    *string   `json:"parentId,omitempty"`
	Path        string    `json:"path,omitempty"`
	OwnerID     string    `json:"ownerId"`
	OwnerEmail  string    `json:"ownerEmail,omitempty"`
	CreatedAt   Timestamp `json:"createdAt"`
	ContentType string    `json:"contentType,omitempty"`
	Size        int64     `json:"size,omitempty"`
	Viewable    bool      `json:"viewable,omitempty"`
}

// SearchPage is one page of search results.
type SearchPage struct {
	Results    []SearchResult `json:"results"`
	TotalCount int64          `json:"totalCount"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
}

// LoginResponse carries the bearer token and the authenticated user.
type LoginResponse struct {
	Token     string        `json:"token"`
	TokenType string        `json:"tokenType"`
	User      identity.User `json:"user"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type folderRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parentId,omitempty"`
}

type renameRequest struct {
	Name string `json:"name"`
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Package session implements the browse/search state machine for the
// VaultBox client: navigation, the listing cache, the debounced search
// session, mutation reconciliation, and the derived display view.
//
// All mutation goes through Reducer.Reduce. Asynchronous work (browse,
// search, mutations) runs on loaders that report back by dispatching result
// actions carrying a token; results whose token is no longer the latest are
// discarded, which substitutes for request cancellation.
package session

import (
	"github.com/pratham-8123/vaultbox/internal/api"
	"github.com/pratham-8123/vaultbox/internal/identity"
)

// Aliases so session and UI code can rely on stable local names.
type ItemType = api.ItemType
type FolderRef = api.FolderRef
type FileRef = api.FileRef
type BreadcrumbItem = api.BreadcrumbItem
type FolderView = api.FolderView
type SearchResult = api.SearchResult
type SearchPage = api.SearchPage
type User = identity.User

const (
	ItemFolder = api.ItemFolder
	ItemFile   = api.ItemFile
)

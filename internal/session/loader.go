package session

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/pratham-8123/vaultbox/internal/api"
)

// BrowseLoader performs folder fetches asynchronously.
type BrowseLoader interface {
	Start(req BrowseRequest)
	Cancel(token int)
}

// BrowseRequest describes one folder fetch.
type BrowseRequest struct {
	Token    int
	FolderID *string
	UserID   *string
	Callback func(BrowseLoadResult)
}

// BrowseLoadResult is emitted once the fetch completes.
type BrowseLoadResult struct {
	Token int
	View  FolderView
	Err   error
}

// SearchLoader performs search requests asynchronously.
type SearchLoader interface {
	Start(req SearchRequest)
	Cancel(seq int)
}

// SearchRequest describes one search request.
type SearchRequest struct {
	Seq      int
	Query    string
	UserID   *string
	Page     int
	PageSize int
	Callback func(SearchLoadResult)
}

// SearchLoadResult is emitted once the search completes.
type SearchLoadResult struct {
	Seq  int
	Page SearchPage
	Err  error
}

// UsersLoader fetches the admin user list.
type UsersLoader interface {
	Start(req UsersRequest)
}

// UsersRequest describes the user-list fetch.
type UsersRequest struct {
	Callback func(users []User, err error)
}

// Mutator executes mutations against the server. Mutations are never
// cancelled; their results are reconciled against the listing cache by the
// reducer.
type Mutator interface {
	CreateFolder(req CreateFolderMutation)
	RenameFolder(req RenameFolderMutation)
	DeleteFolder(req DeleteMutation)
	DeleteFile(req DeleteMutation)
	UploadFile(req UploadMutation)
}

type CreateFolderMutation struct {
	Name         string
	ParentID     *string
	ListingToken int
	Callback     func(CreateFolderResultAction)
}

type RenameFolderMutation struct {
	FolderID string
	Name     string
	Callback func(RenameFolderResultAction)
}

type DeleteMutation struct {
	ID       string
	Callback func(id string, err error)
}

type UploadMutation struct {
	Path         string
	Name         string
	ParentID     *string
	ListingToken int
	Callback     func(UploadResultAction)
}

// Downloader saves server files to local disk.
type Downloader interface {
	Start(req DownloadRequest)
}

// DownloadRequest describes one file download.
type DownloadRequest struct {
	FileID   string
	Name     string
	Callback func(DownloadResultAction)
}

// NewAsyncBrowseLoader constructs the default goroutine-based loader over
// the API client.
func NewAsyncBrowseLoader(svc api.Service) BrowseLoader {
	return &asyncBrowseLoader{
		svc:  svc,
		jobs: make(map[int]context.CancelFunc),
	}
}

type asyncBrowseLoader struct {
	svc  api.Service
	mu   sync.Mutex
	jobs map[int]context.CancelFunc
}

func (l *asyncBrowseLoader) Start(req BrowseRequest) {
	if req.Token == 0 || req.Callback == nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	l.mu.Lock()
	l.jobs[req.Token] = cancel
	l.mu.Unlock()

	go func() {
		defer func() {
			l.mu.Lock()
			delete(l.jobs, req.Token)
			l.mu.Unlock()
		}()

		view, err := l.svc.Browse(ctx, req.FolderID, req.UserID)

		select {
		case <-ctx.Done():
			return
		default:
		}

		req.Callback(BrowseLoadResult{
			Token: req.Token,
			View:  view,
			Err:   err,
		})
	}()
}

func (l *asyncBrowseLoader) Cancel(token int) {
	l.mu.Lock()
	if cancel, ok := l.jobs[token]; ok {
		cancel()
		delete(l.jobs, token)
	}
	l.mu.Unlock()
}

// NewAsyncSearchLoader constructs the default goroutine-based search loader.
func NewAsyncSearchLoader(svc api.Service) SearchLoader {
	return &asyncSearchLoader{
		svc:  svc,
		jobs: make(map[int]context.CancelFunc),
	}
}

type asyncSearchLoader struct {
	svc  api.Service
	mu   sync.Mutex
	jobs map[int]context.CancelFunc
}

func (l *asyncSearchLoader) Start(req SearchRequest) {
	if req.Seq == 0 || req.Callback == nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	l.mu.Lock()
	l.jobs[req.Seq] = cancel
	l.mu.Unlock()

	go func() {
		defer func() {
			l.mu.Lock()
			delete(l.jobs, req.Seq)
			l.mu.Unlock()
		}()

		page, err := l.svc.Search(ctx, req.Query, req.UserID, req.Page, req.PageSize)

		select {
		case <-ctx.Done():
			return
		default:
		}

		req.Callback(SearchLoadResult{
			Seq:  req.Seq,
			Page: page,
			Err:  err,
		})
	}()
}

func (l *asyncSearchLoader) Cancel(seq int) {
	l.mu.Lock()
	if cancel, ok := l.jobs[seq]; ok {
		cancel()
		delete(l.jobs, seq)
	}
	l.mu.Unlock()
}

// NewAsyncUsersLoader constructs the default user-list loader.
func NewAsyncUsersLoader(svc api.Service) UsersLoader {
	return &asyncUsersLoader{svc: svc}
}

type asyncUsersLoader struct {
	svc api.Service
}

func (l *asyncUsersLoader) Start(req UsersRequest) {
	if req.Callback == nil {
		return
	}
	go func() {
		users, err := l.svc.ListUsers(context.Background())
		req.Callback(users, err)
	}()
}

// NewAsyncDownloader constructs a downloader that writes into dir. Existing
// files are never overwritten.
func NewAsyncDownloader(svc api.Service, dir string) Downloader {
	return &asyncDownloader{svc: svc, dir: dir}
}

type asyncDownloader struct {
	svc api.Service
	dir string
}

func (d *asyncDownloader) Start(req DownloadRequest) {
	if req.Callback == nil {
		return
	}
	go func() {
		path, err := d.save(req)
		req.Callback(DownloadResultAction{Name: req.Name, Path: path, Err: err})
	}()
}

func (d *asyncDownloader) save(req DownloadRequest) (string, error) {
	body, err := d.svc.DownloadFile(context.Background(), req.FileID)
	if err != nil {
		return "", err
	}
	defer body.Close()

	// The name comes from the server; strip any path components it smuggled in.
	path := filepath.Join(d.dir, filepath.Base(req.Name))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}

	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// NewAsyncMutator constructs the default mutator over the API client.
func NewAsyncMutator(svc api.Service) Mutator {
	return &asyncMutator{svc: svc}
}

type asyncMutator struct {
	svc api.Service
}

func (m *asyncMutator) CreateFolder(req CreateFolderMutation) {
	if req.Callback == nil {
		return
	}
	go func() {
		ref, err := m.svc.CreateFolder(context.Background(), req.Name, req.ParentID)
		req.Callback(CreateFolderResultAction{Ref: ref, ListingToken: req.ListingToken, Err: err})
	}()
}

func (m *asyncMutator) RenameFolder(req RenameFolderMutation) {
	if req.Callback == nil {
		return
	}
	go func() {
		ref, err := m.svc.RenameFolder(context.Background(), req.FolderID, req.Name)
		req.Callback(RenameFolderResultAction{Ref: ref, Err: err})
	}()
}

func (m *asyncMutator) DeleteFolder(req DeleteMutation) {
	if req.Callback == nil {
		return
	}
	go func() {
		err := m.svc.DeleteFolder(context.Background(), req.ID)
		req.Callback(req.ID, err)
	}()
}

func (m *asyncMutator) DeleteFile(req DeleteMutation) {
	if req.Callback == nil {
		return
	}
	go func() {
		err := m.svc.DeleteFile(context.Background(), req.ID)
		req.Callback(req.ID, err)
	}()
}

func (m *asyncMutator) UploadFile(req UploadMutation) {
	if req.Callback == nil {
		return
	}
	go func() {
		ref, err := m.uploadFromPath(req)
		req.Callback(UploadResultAction{Ref: ref, ListingToken: req.ListingToken, Err: err})
	}()
}

func (m *asyncMutator) uploadFromPath(req UploadMutation) (FileRef, error) {
	f, err := os.Open(req.Path)
	if err != nil {
		return FileRef{}, fmt.Errorf("opening %s: %w", req.Path, err)
	}
	defer f.Close()
	return m.svc.UploadFile(context.Background(), io.Reader(f), req.Name, req.ParentID)
}

package devserver

import (
	"errors"
	"sort"
	"sync"
	"time"

	"fe/types"

	"github.com/google/uuid"
)

var ErrImageNotFound = errors.New("image not found")

type storedImage struct {
	id        string
	filename  string
	metadata  types.Metadata
	data      []byte
	createdAt time.Time
	readyAt   time.Time
}

// Store keeps generated images in memory. An image becomes visible once its
// readyAt time has passed.
type Store struct {
	mu     sync.RWMutex
	images map[string]*storedImage
	now    func() time.Time
}

func NewStore() *Store {
	return &Store{
		images: map[string]*storedImage{},
		now:    time.Now,
	}
}

func (s *Store) Add(meta types.Metadata, data []byte, delay time.Duration) string {
	id := uuid.NewString()
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.images[id] = &storedImage{
		id:        id,
		filename:  id + ".webp",
		metadata:  meta,
		data:      data,
		createdAt: now,
		readyAt:   now.Add(delay),
	}
	return id
}

func (s *Store) ready(img *storedImage) bool {
	return !s.now().Before(img.readyAt)
}

func (s *Store) Metadata(id string) (types.Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	img, ok := s.images[id]
	if !ok || !s.ready(img) {
		return types.Metadata{}, ErrImageNotFound
	}
	return img.metadata, nil
}

func (s *Store) File(filename string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, img := range s.images {
		if img.filename == filename && s.ready(img) {
			return img.data, nil
		}
	}
	return nil, ErrImageNotFound
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.images[id]; !ok {
		return ErrImageNotFound
	}
	delete(s.images, id)
	return nil
}

// Page lists ready images newest first.
func (s *Store) Page(page, perPage int) types.ListImagesResponse {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 12
	}

	s.mu.RLock()
	ready := make([]*storedImage, 0, len(s.images))
	for _, img := range s.images {
		if s.ready(img) {
			ready = append(ready, img)
		}
	}
	s.mu.RUnlock()

	sort.Slice(ready, func(i, j int) bool {
		if ready[i].createdAt.Equal(ready[j].createdAt) {
			return ready[i].id > ready[j].id
		}
		return ready[i].createdAt.After(ready[j].createdAt)
	})

	total := len(ready)
	resp := types.ListImagesResponse{
		Images:     []types.GalleryImage{},
		TotalPages: (total + perPage - 1) / perPage,
		Page:       page,
		PerPage:    perPage,
		Total:      total,
	}

	start := (page - 1) * perPage
	if start >= total {
		return resp
	}
	end := min(start+perPage, total)
	for _, img := range ready[start:end] {
		resp.Images = append(resp.Images, types.GalleryImage{
			ImageFilename: img.filename,
			Prompt:        img.metadata.Prompt,
		})
	}
	return resp
}

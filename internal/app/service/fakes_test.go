package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"time"

	"homefind/internal/common"
	"homefind/internal/domain/model"
	"homefind/internal/domain/repository"
)

// In-memory collaborators used across the service tests.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User // by id
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return common.ErrConflict
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return common.ErrNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

type fakePropertyRepo struct {
	mu         sync.Mutex
	properties map[string]*model.Property
	features   map[string][]string

	lastLimit  int
	lastOffset int
}

func newFakePropertyRepo() *fakePropertyRepo {
	return &fakePropertyRepo{
		properties: map[string]*model.Property{},
		features:   map[string][]string{},
	}
}

func (r *fakePropertyRepo) Create(_ context.Context, _ *sql.Tx, p *model.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.properties {
		if existing.Slug == p.Slug {
			return common.ErrConflict
		}
	}
	cp := *p
	r.properties[p.ID] = &cp
	return nil
}

func (r *fakePropertyRepo) Update(_ context.Context, _ *sql.Tx, p *model.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.properties[p.ID]; !ok {
		return common.ErrNotFound
	}
	cp := *p
	r.properties[p.ID] = &cp
	return nil
}

func (r *fakePropertyRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.properties[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.properties, id)
	return nil
}

func (r *fakePropertyRepo) FindByID(_ context.Context, id string) (*model.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.properties[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePropertyRepo) FindBySlug(_ context.Context, slug string) (*model.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.properties {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakePropertyRepo) Search(_ context.Context, _ repository.PropertyFilter, limit, offset int) ([]model.Property, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastLimit = limit
	r.lastOffset = offset
	out := []model.Property{}
	for _, p := range r.properties {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := len(out)
	if offset >= len(out) {
		return []model.Property{}, total, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

func (r *fakePropertyRepo) ListByOwner(_ context.Context, ownerID string) ([]model.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Property{}
	for _, p := range r.properties {
		if p.OwnerID == ownerID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakePropertyRepo) SetFeatures(_ context.Context, _ *sql.Tx, propertyID string, features []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.features[propertyID] = append([]string(nil), features...)
	return nil
}

func (r *fakePropertyRepo) GetFeatures(_ context.Context, propertyID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.features[propertyID]...), nil
}

type fakeImageRepo struct {
	mu        sync.Mutex
	images    map[string]*model.PropertyImage
	insertErr error
}

func newFakeImageRepo() *fakeImageRepo {
	return &fakeImageRepo{images: map[string]*model.PropertyImage{}}
}

func (r *fakeImageRepo) Insert(_ context.Context, img *model.PropertyImage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	next := 0
	for _, existing := range r.images {
		if existing.PropertyID == img.PropertyID && existing.SortOrder >= next {
			next = existing.SortOrder + 1
		}
	}
	img.SortOrder = next
	img.CreatedAt = time.Now()
	cp := *img
	r.images[img.ID] = &cp
	return nil
}

func (r *fakeImageRepo) FindByID(_ context.Context, id string) (*model.PropertyImage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	img, ok := r.images[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *img
	return &cp, nil
}

func (r *fakeImageRepo) ListByProperty(_ context.Context, propertyID string) ([]model.PropertyImage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.PropertyImage{}
	for _, img := range r.images {
		if img.PropertyID == propertyID {
			out = append(out, *img)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (r *fakeImageRepo) CountByProperty(_ context.Context, propertyID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, img := range r.images {
		if img.PropertyID == propertyID {
			n++
		}
	}
	return n, nil
}

func (r *fakeImageRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.images[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.images, id)
	return nil
}

func (r *fakeImageRepo) UpdateOrder(_ context.Context, _ *sql.Tx, id string, sortOrder int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	img, ok := r.images[id]
	if !ok {
		return common.ErrNotFound
	}
	img.SortOrder = sortOrder
	return nil
}

type fakeInquiryRepo struct {
	mu        sync.Mutex
	inquiries map[string]*model.Inquiry
}

func newFakeInquiryRepo() *fakeInquiryRepo {
	return &fakeInquiryRepo{inquiries: map[string]*model.Inquiry{}}
}

func (r *fakeInquiryRepo) Create(_ context.Context, inquiry *model.Inquiry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inquiry.CreatedAt = time.Now()
	cp := *inquiry
	r.inquiries[inquiry.ID] = &cp
	return nil
}

func (r *fakeInquiryRepo) FindByID(_ context.Context, id string) (*model.Inquiry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inq, ok := r.inquiries[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *inq
	return &cp, nil
}

func (r *fakeInquiryRepo) ListByProperty(_ context.Context, propertyID string) ([]model.Inquiry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Inquiry{}
	for _, inq := range r.inquiries {
		if inq.PropertyID == propertyID {
			out = append(out, *inq)
		}
	}
	return out, nil
}

func (r *fakeInquiryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.inquiries[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.inquiries, id)
	return nil
}

type fakeFavoriteRepo struct {
	mu   sync.Mutex
	favs map[[2]string]model.Favorite // (userID, propertyID)
}

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{favs: map[[2]string]model.Favorite{}}
}

func (r *fakeFavoriteRepo) Create(_ context.Context, fav *model.Favorite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]string{fav.UserID, fav.PropertyID}
	if _, ok := r.favs[key]; ok {
		return common.ErrConflict
	}
	fav.CreatedAt = time.Now()
	r.favs[key] = *fav
	return nil
}

func (r *fakeFavoriteRepo) Delete(_ context.Context, userID, propertyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]string{userID, propertyID}
	if _, ok := r.favs[key]; !ok {
		return common.ErrNotFound
	}
	delete(r.favs, key)
	return nil
}

func (r *fakeFavoriteRepo) ListByUser(_ context.Context, userID string) ([]model.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Property{}
	for key := range r.favs {
		if key[0] == userID {
			out = append(out, model.Property{ID: key[1]})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// passthroughTx runs the transactional body directly; the fake repositories
// ignore their tx argument.
func passthroughTx(_ context.Context, fn func(tx *sql.Tx) error) error {
	return fn(nil)
}

// fakeSessionStore tracks live refresh-token ids like the redis-backed store.
type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]string // jti -> userID
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]string{}}
}

func (s *fakeSessionStore) Save(_ context.Context, jti, userID string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[jti] = userID
	return nil
}

func (s *fakeSessionStore) Exists(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[jti]
	return ok, nil
}

func (s *fakeSessionStore) Revoke(_ context.Context, jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, jti)
	return nil
}

// fakeStorage records objects in memory and can be told to fail.
type fakeStorage struct {
	mu        sync.Mutex
	objects   map[string][]byte // url -> data
	putErr    error
	deleteErr error
	deleted   []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (s *fakeStorage) Put(_ context.Context, name string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return "", s.putErr
	}
	url := "http://storage.test/" + name
	s.objects[url] = append([]byte(nil), data...)
	return url, nil
}

func (s *fakeStorage) Delete(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, url)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if _, ok := s.objects[url]; !ok {
		return errors.New("object not found: " + url)
	}
	delete(s.objects, url)
	return nil
}

func (s *fakeStorage) has(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[url]
	return ok
}

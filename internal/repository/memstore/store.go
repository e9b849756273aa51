// Package memstore is an in-memory repository.Store for tests and local runs.
// Transactions are serialized and roll back by restoring a snapshot.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/realestate-service/internal/domain"
	"github.com/spec-kit/realestate-service/internal/repository"
)

type data struct {
	users      map[string]domain.User
	properties map[string]domain.Property
	sales      map[string]domain.Sale
	payments   map[string]domain.Payment
}

func (d *data) clone() *data {
	out := &data{
		users:      make(map[string]domain.User, len(d.users)),
		properties: make(map[string]domain.Property, len(d.properties)),
		sales:      make(map[string]domain.Sale, len(d.sales)),
		payments:   make(map[string]domain.Payment, len(d.payments)),
	}
	for k, v := range d.users {
		out.users[k] = v
	}
	for k, v := range d.properties {
		out.properties[k] = v
	}
	for k, v := range d.sales {
		out.sales[k] = v
	}
	for k, v := range d.payments {
		out.payments[k] = v
	}
	return out
}

// Store implements repository.Store in memory.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	d    *data
	seq  int64
	now  func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		d: &data{
			users:      map[string]domain.User{},
			properties: map[string]domain.Property{},
			sales:      map[string]domain.Sale{},
			payments:   map[string]domain.Payment{},
		},
		now: time.Now,
	}
}

// SetClock overrides the time source used for created_at values.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Users() repository.UserRepository         { return userRepo{s} }
func (s *Store) Properties() repository.PropertyRepository { return propertyRepo{s} }
func (s *Store) Sales() repository.SaleRepository          { return saleRepo{s} }
func (s *Store) Payments() repository.PaymentRepository    { return paymentRepo{s} }

// WithinTx serializes fn against other transactions and restores the previous
// state when fn fails.
func (s *Store) WithinTx(_ context.Context, fn func(tx repository.Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.d.clone()
	s.mu.Unlock()

	if err := fn(txStore{s}); err != nil {
		s.mu.Lock()
		s.d = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// txStore joins nested WithinTx calls to the enclosing transaction.
type txStore struct{ *Store }

func (t txStore) WithinTx(_ context.Context, fn func(tx repository.Store) error) error {
	return fn(t)
}

// stamp returns a fresh id and a strictly increasing creation time.
func (s *Store) stamp() (string, time.Time) {
	s.seq++
	return uuid.NewString(), s.now().Add(time.Duration(s.seq) * time.Microsecond)
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.d.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return fmt.Errorf("%w: users_email_key", repository.ErrDuplicate)
		}
	}
	user.ID, user.CreatedAt = r.s.stamp()
	r.s.d.users[user.ID] = *user
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	user, ok := r.s.d.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, user := range r.s.d.users {
		if strings.EqualFold(user.Email, email) {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r userRepo) List(_ context.Context) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := make([]domain.User, 0, len(r.s.d.users))
	for _, user := range r.s.d.users {
		result = append(result, user)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r userRepo) UpdateRole(_ context.Context, id string, role domain.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if user, ok := r.s.d.users[id]; ok {
		user.Role = role
		r.s.d.users[id] = user
	}
	return nil
}

func (r userRepo) Stats(_ context.Context) (*domain.UserStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	stats := &domain.UserStats{UsersByRole: []domain.RoleCount{}}
	cutoff := r.s.now().AddDate(0, 0, -30)
	counts := map[domain.Role]int64{}
	for _, user := range r.s.d.users {
		stats.TotalUsers++
		counts[user.Role]++
		if !user.CreatedAt.Before(cutoff) {
			stats.RecentUsers++
		}
	}
	for role, count := range counts {
		stats.UsersByRole = append(stats.UsersByRole, domain.RoleCount{Role: role, Count: count})
	}
	sort.Slice(stats.UsersByRole, func(i, j int) bool { return stats.UsersByRole[i].Role < stats.UsersByRole[j].Role })
	return stats, nil
}

type propertyRepo struct{ s *Store }

func (r propertyRepo) Create(_ context.Context, property *domain.Property) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.users[property.SellerID]; !ok {
		return fmt.Errorf("%w: properties_seller_id_fkey", repository.ErrForeignKey)
	}
	property.ID, property.CreatedAt = r.s.stamp()
	r.s.d.properties[property.ID] = *property
	return nil
}

func (r propertyRepo) Update(_ context.Context, property *domain.Property) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.d.properties[property.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	updated := *property
	updated.SellerID = existing.SellerID
	updated.CreatedAt = existing.CreatedAt
	r.s.d.properties[property.ID] = updated
	return nil
}

func (r propertyRepo) UpdateStatus(_ context.Context, id string, status domain.PropertyStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	property, ok := r.s.d.properties[id]
	if !ok {
		return pgx.ErrNoRows
	}
	property.Status = status
	r.s.d.properties[id] = property
	return nil
}

func (r propertyRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.properties[id]; !ok {
		return pgx.ErrNoRows
	}
	for _, sale := range r.s.d.sales {
		if sale.PropertyID == id {
			return fmt.Errorf("%w: sales_property_id_fkey", repository.ErrForeignKey)
		}
	}
	delete(r.s.d.properties, id)
	return nil
}

func (r propertyRepo) GetForUpdate(_ context.Context, id string) (*domain.Property, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	property, ok := r.s.d.properties[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &property, nil
}

func (r propertyRepo) GetListing(_ context.Context, id string) (*domain.PropertyListing, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	property, ok := r.s.d.properties[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	listing := r.s.propertyListing(property)
	return &listing, nil
}

func (r propertyRepo) List(_ context.Context, filter repository.PropertyFilter) ([]domain.PropertyListing, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := []domain.PropertyListing{}
	for _, property := range r.s.d.properties {
		if filter.Status != nil && property.Status != *filter.Status {
			continue
		}
		if filter.City != nil && !strings.Contains(strings.ToLower(property.City), strings.ToLower(strings.TrimSpace(*filter.City))) {
			continue
		}
		if filter.MinPrice != nil && property.Price < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && property.Price > *filter.MaxPrice {
			continue
		}
		if filter.PropertyType != nil && *filter.PropertyType != "" && property.PropertyType != *filter.PropertyType {
			continue
		}
		result = append(result, r.s.propertyListing(property))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (s *Store) propertyListing(property domain.Property) domain.PropertyListing {
	seller := s.d.users[property.SellerID]
	return domain.PropertyListing{
		Property: property,
		Seller: domain.SellerContact{
			FirstName: seller.FirstName,
			LastName:  seller.LastName,
			Email:     seller.Email,
			Phone:     seller.Phone,
		},
	}
}

type saleRepo struct{ s *Store }

func (r saleRepo) Create(_ context.Context, sale *domain.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.properties[sale.PropertyID]; !ok {
		return fmt.Errorf("%w: sales_property_id_fkey", repository.ErrForeignKey)
	}
	if _, ok := r.s.d.users[sale.BuyerID]; !ok {
		return fmt.Errorf("%w: sales_buyer_id_fkey", repository.ErrForeignKey)
	}
	if _, ok := r.s.d.users[sale.SellerID]; !ok {
		return fmt.Errorf("%w: sales_seller_id_fkey", repository.ErrForeignKey)
	}
	sale.ID, sale.CreatedAt = r.s.stamp()
	r.s.d.sales[sale.ID] = *sale
	return nil
}

func (r saleRepo) Update(_ context.Context, sale *domain.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.d.sales[sale.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	existing.Status = sale.Status
	existing.Notes = sale.Notes
	r.s.d.sales[sale.ID] = existing
	return nil
}

func (r saleRepo) GetByID(_ context.Context, id string) (*domain.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sale, ok := r.s.d.sales[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &sale, nil
}

func (r saleRepo) GetForUpdate(ctx context.Context, id string) (*domain.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r saleRepo) GetListing(_ context.Context, id string) (*domain.SaleListing, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sale, ok := r.s.d.sales[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	listing := r.s.saleListing(sale)
	return &listing, nil
}

func (r saleRepo) List(_ context.Context, scope repository.SaleScope) ([]domain.SaleListing, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := []domain.SaleListing{}
	for _, sale := range r.s.d.sales {
		if scope.SellerID != nil && sale.SellerID != *scope.SellerID {
			continue
		}
		if scope.SellerID == nil && scope.BuyerID != nil && sale.BuyerID != *scope.BuyerID {
			continue
		}
		result = append(result, r.s.saleListing(sale))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r saleRepo) Stats(_ context.Context, year int) (*domain.SaleStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	stats := &domain.SaleStats{Monthly: []domain.MonthlySales{}}
	byMonth := map[int]*domain.MonthlySales{}
	for _, sale := range r.s.d.sales {
		switch sale.Status {
		case domain.SaleStatusPending:
			stats.PendingCount++
		case domain.SaleStatusCompleted:
			stats.CompletedCount++
			stats.CompletedValue += sale.SalePrice
			if sale.SaleDate.Year() != year {
				continue
			}
			month := int(sale.SaleDate.Month())
			entry, ok := byMonth[month]
			if !ok {
				entry = &domain.MonthlySales{Month: month}
				byMonth[month] = entry
			}
			entry.Count++
			entry.TotalValue += sale.SalePrice
		}
	}
	for _, entry := range byMonth {
		stats.Monthly = append(stats.Monthly, *entry)
	}
	sort.Slice(stats.Monthly, func(i, j int) bool { return stats.Monthly[i].Month < stats.Monthly[j].Month })
	return stats, nil
}

func (s *Store) saleListing(sale domain.Sale) domain.SaleListing {
	property := s.d.properties[sale.PropertyID]
	buyer := s.d.users[sale.BuyerID]
	seller := s.d.users[sale.SellerID]
	return domain.SaleListing{
		Sale:          sale,
		PropertyTitle: property.Title,
		Address:       property.Address,
		City:          property.City,
		State:         property.State,
		Buyer:         domain.Party{FirstName: buyer.FirstName, LastName: buyer.LastName, Email: buyer.Email},
		Seller:        domain.Party{FirstName: seller.FirstName, LastName: seller.LastName, Email: seller.Email},
	}
}

type paymentRepo struct{ s *Store }

func (r paymentRepo) Create(_ context.Context, payment *domain.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.sales[payment.SaleID]; !ok {
		return fmt.Errorf("%w: payments_sale_id_fkey", repository.ErrForeignKey)
	}
	payment.ID, payment.CreatedAt = r.s.stamp()
	r.s.d.payments[payment.ID] = *payment
	return nil
}

func (r paymentRepo) UpdateStatus(_ context.Context, id string, status domain.PaymentStatus, notes *string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	payment, ok := r.s.d.payments[id]
	if !ok {
		return false, nil
	}
	payment.Status = status
	if notes != nil {
		payment.Notes = *notes
	}
	r.s.d.payments[id] = payment
	return true, nil
}

func (r paymentRepo) ListBySale(_ context.Context, saleID string) ([]domain.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := []domain.Payment{}
	for _, payment := range r.s.d.payments {
		if payment.SaleID == saleID {
			result = append(result, payment)
		}
	}
	sortPayments(result, func(i int) domain.Payment { return result[i] })
	return result, nil
}

func (r paymentRepo) ListAll(_ context.Context) ([]domain.PaymentListing, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := []domain.PaymentListing{}
	for _, payment := range r.s.d.payments {
		sale := r.s.d.sales[payment.SaleID]
		property := r.s.d.properties[sale.PropertyID]
		buyer := r.s.d.users[sale.BuyerID]
		result = append(result, domain.PaymentListing{
			Payment:        payment,
			SalePrice:      sale.SalePrice,
			PropertyTitle:  property.Title,
			Address:        property.Address,
			BuyerFirstName: buyer.FirstName,
			BuyerLastName:  buyer.LastName,
		})
	}
	sortPayments(result, func(i int) domain.Payment { return result[i].Payment })
	return result, nil
}

// sortPayments orders newest payment date first, then newest created.
func sortPayments[T any](items []T, at func(int) domain.Payment) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := at(i), at(j)
		if !a.PaymentDate.Equal(b.PaymentDate) {
			return a.PaymentDate.After(b.PaymentDate)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}

package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/entity"
	"github.com/sangkips/tavern-api/internal/domain/enum"
	"github.com/sangkips/tavern-api/internal/domain/repository"
	"github.com/sangkips/tavern-api/pkg/notifier"
	"github.com/sangkips/tavern-api/pkg/pagination"
	"github.com/sangkips/tavern-api/pkg/utils"
	"github.com/shopspring/decimal"
)

// --- In-memory store ---

// memStore backs every fake repository. The fake transactor snapshots it
// and restores the snapshot when fn fails, mirroring a database rollback.
type memStore struct {
	mu sync.Mutex

	users         map[uuid.UUID]entity.User
	products      map[uuid.UUID]entity.Product
	transactions  []entity.Transaction
	expenses      []entity.Expense
	settings      entity.Settings
	ledgers       map[int]entity.WeekLedger
	tickets       []entity.TombolaTicket
	invitations   map[uuid.UUID]entity.Invitation
	notes         map[uuid.UUID]entity.ExpenseNote
	notifications []entity.Notification
	finds         []entity.EasterEggFind
	marketSales   []entity.MarketSale
}

func newMemStore() *memStore {
	return &memStore{
		users:       make(map[uuid.UUID]entity.User),
		products:    make(map[uuid.UUID]entity.Product),
		settings:    entity.DefaultSettings(decimal.NewFromInt(10)),
		ledgers:     make(map[int]entity.WeekLedger),
		invitations: make(map[uuid.UUID]entity.Invitation),
		notes:       make(map[uuid.UUID]entity.ExpenseNote),
	}
}

func (s *memStore) snapshot() *memStore {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := &memStore{
		users:         make(map[uuid.UUID]entity.User, len(s.users)),
		products:      make(map[uuid.UUID]entity.Product, len(s.products)),
		transactions:  append([]entity.Transaction(nil), s.transactions...),
		expenses:      append([]entity.Expense(nil), s.expenses...),
		settings:      s.settings,
		ledgers:       make(map[int]entity.WeekLedger, len(s.ledgers)),
		tickets:       append([]entity.TombolaTicket(nil), s.tickets...),
		invitations:   make(map[uuid.UUID]entity.Invitation, len(s.invitations)),
		notes:         make(map[uuid.UUID]entity.ExpenseNote, len(s.notes)),
		notifications: append([]entity.Notification(nil), s.notifications...),
		finds:         append([]entity.EasterEggFind(nil), s.finds...),
		marketSales:   append([]entity.MarketSale(nil), s.marketSales...),
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.ledgers {
		c.ledgers[k] = v
	}
	for k, v := range s.invitations {
		c.invitations[k] = v
	}
	for k, v := range s.notes {
		c.notes[k] = v
	}
	return c
}

func (s *memStore) restore(from *memStore) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = from.users
	s.products = from.products
	s.transactions = from.transactions
	s.expenses = from.expenses
	s.settings = from.settings
	s.ledgers = from.ledgers
	s.tickets = from.tickets
	s.invitations = from.invitations
	s.notes = from.notes
	s.notifications = from.notifications
	s.finds = from.finds
	s.marketSales = from.marketSales
}

func (s *memStore) addUser(first string, role enum.Role, grade enum.Grade) entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := entity.User{
		ID:        uuid.New(),
		FirstName: first,
		LastName:  "Test",
		Email:     fmt.Sprintf("%s@tavern.test", first),
		Role:      role,
		Grade:     grade,
		Active:    true,
	}
	s.users[u.ID] = u
	return u
}

func (s *memStore) addProduct(name string, category enum.ProductCategory, quantity, alert int, price, cost int64) entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := entity.Product{
		ID:            uuid.New(),
		Name:          name,
		Slug:          utils.Slugify(name),
		Category:      category,
		Quantity:      quantity,
		QuantityAlert: alert,
		SellingPrice:  price,
		BuyingPrice:   cost,
		Active:        true,
	}
	s.products[p.ID] = p
	return p
}

func (s *memStore) stock(id uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id].Quantity
}

func paginate[T any](items []T, params *pagination.PaginationParams) ([]T, int64) {
	total := int64(len(items))
	if params == nil {
		return items, total
	}
	start := params.Offset()
	if start > len(items) {
		start = len(items)
	}
	end := start + params.PerPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], total
}

// --- Transactor ---

type fakeTransactor struct {
	store *memStore
	calls int
}

func (t *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	saved := t.store.snapshot()
	if err := fn(ctx); err != nil {
		t.store.restore(saved)
		return err
	}
	return nil
}

// --- Users ---

type fakeUserRepo struct{ *memStore }

func (r fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return fmt.Errorf("%w: users_email_key", repository.ErrDuplicate)
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = *user
	return nil
}

func (r fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r fakeUserRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = *user
	return nil
}

func (r fakeUserRepo) List(ctx context.Context, params *repository.UserFilterParams) ([]entity.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.User
	for _, u := range r.users {
		if params.Role != "" && u.Role != params.Role {
			continue
		}
		if params.ActiveOnly && !u.Active {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FirstName < out[j].FirstName })
	page, total := paginate(out, params.Pagination)
	return page, total, nil
}

func (r fakeUserRepo) ListActiveByGrades(ctx context.Context, grades []enum.Grade) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.User
	for _, u := range r.users {
		if !u.Active {
			continue
		}
		for _, g := range grades {
			if u.Grade == g {
				out = append(out, u)
				break
			}
		}
	}
	return out, nil
}

func (r fakeUserRepo) ListActiveByRole(ctx context.Context, role enum.Role) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.User
	for _, u := range r.users {
		if u.Active && u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

// --- Products ---

type fakeProductRepo struct{ *memStore }

func (r fakeProductRepo) Create(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Slug == product.Slug {
			return fmt.Errorf("%w: products_slug_key", repository.ErrDuplicate)
		}
	}
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	r.products[product.ID] = *product
	return nil
}

func (r fakeProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.products[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (r fakeProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Product
	seen := make(map[uuid.UUID]bool)
	for _, id := range ids {
		if p, ok := r.products[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, p)
		}
	}
	return out, nil
}

func (r fakeProductRepo) GetBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, nil
}

func (r fakeProductRepo) Update(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = *product
	return nil
}

func (r fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r fakeProductRepo) List(ctx context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Product
	for _, p := range r.products {
		if params.Category != "" && p.Category != params.Category {
			continue
		}
		if params.LowStock && !p.IsLowStock() {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	page, total := paginate(out, params.Pagination)
	return page, total, nil
}

func (r fakeProductRepo) GetLowStock(ctx context.Context) ([]entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Product
	for _, p := range r.products {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r fakeProductRepo) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.products[id]
	p.Quantity = quantity
	r.products[id] = p
	return nil
}

// AtomicDecrementBatch applies what it can, like the conditional UPDATEs do,
// and leaves undoing the partial work to the transactor.
func (r fakeProductRepo) AtomicDecrementBatch(ctx context.Context, decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]uuid.UUID, 0, len(decrements))
	for id := range decrements {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	var failed []uuid.UUID
	for _, id := range ids {
		p, ok := r.products[id]
		if !ok || p.Quantity < decrements[id] {
			failed = append(failed, id)
			continue
		}
		p.Quantity -= decrements[id]
		r.products[id] = p
	}
	return failed, nil
}

// --- Transactions ---

type fakeTransactionRepo struct{ *memStore }

func (r fakeTransactionRepo) CreateBatch(ctx context.Context, transactions []entity.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range transactions {
		if transactions[i].ID == uuid.Nil {
			transactions[i].ID = uuid.New()
		}
		transactions[i].CreatedAt = time.Now()
		r.transactions = append(r.transactions, transactions[i])
	}
	return nil
}

func (r fakeTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.transactions {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, nil
}

func (r fakeTransactionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, t := range r.transactions {
		if t.ID == id {
			r.transactions = append(r.transactions[:i], r.transactions[i+1:]...)
			break
		}
	}
	return nil
}

func (r fakeTransactionRepo) List(ctx context.Context, params *repository.TransactionFilterParams) ([]entity.Transaction, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Transaction
	for _, t := range r.transactions {
		if params.WeekID != nil && t.WeekID != *params.WeekID {
			continue
		}
		if params.EmployeeID != nil && t.EmployeeID != *params.EmployeeID {
			continue
		}
		out = append(out, t)
	}
	page, total := paginate(out, params.Pagination)
	return page, total, nil
}

func (r fakeTransactionRepo) ListByWeek(ctx context.Context, weekID int) ([]entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Transaction
	for _, t := range r.transactions {
		if t.WeekID == weekID {
			out = append(out, t)
		}
	}
	return out, nil
}

// --- Expenses ---

type fakeExpenseRepo struct{ *memStore }

func (r fakeExpenseRepo) Create(ctx context.Context, expense *entity.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	r.expenses = append(r.expenses, *expense)
	return nil
}

func (r fakeExpenseRepo) CreateBatch(ctx context.Context, expenses []entity.Expense) error {
	for i := range expenses {
		if err := r.Create(ctx, &expenses[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r fakeExpenseRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.expenses {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, nil
}

func (r fakeExpenseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.expenses {
		if e.ID == id {
			r.expenses = append(r.expenses[:i], r.expenses[i+1:]...)
			break
		}
	}
	return nil
}

func (r fakeExpenseRepo) List(ctx context.Context, weekID *int, params *pagination.PaginationParams) ([]entity.Expense, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Expense
	for _, e := range r.expenses {
		if weekID == nil || e.WeekID == *weekID {
			out = append(out, e)
		}
	}
	page, total := paginate(out, params)
	return page, total, nil
}

// --- Reports ---

type fakeReportRepo struct{ *memStore }

func (r fakeReportRepo) SalesTotals(ctx context.Context, weekID int) (repository.SalesTotals, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	totals := repository.SalesTotals{Revenue: decimal.Zero, Cost: decimal.Zero, Margin: decimal.Zero}
	for _, t := range r.transactions {
		if t.WeekID != weekID {
			continue
		}
		totals.Revenue = totals.Revenue.Add(t.TotalAmount)
		totals.Cost = totals.Cost.Add(t.TotalCost)
		totals.Margin = totals.Margin.Add(t.Margin)
		totals.TransactionCount++
	}
	return totals, nil
}

func (r fakeReportRepo) ExpenseTotals(ctx context.Context, weekID int, deductible []string) (repository.ExpenseTotals, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	totals := repository.ExpenseTotals{Total: decimal.Zero, Deductible: decimal.Zero}
	for _, e := range r.expenses {
		if e.WeekID != weekID {
			continue
		}
		totals.Total = totals.Total.Add(e.Amount)
		for _, c := range deductible {
			if strings.ToLower(strings.TrimSpace(e.Category)) == c {
				totals.Deductible = totals.Deductible.Add(e.Amount)
				break
			}
		}
	}
	return totals, nil
}

func (r fakeReportRepo) SalesByEmployee(ctx context.Context, weekID int) ([]repository.EmployeeSalesResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byEmployee := make(map[uuid.UUID]*repository.EmployeeSalesResult)
	var order []uuid.UUID
	for _, t := range r.transactions {
		if t.WeekID != weekID {
			continue
		}
		row, ok := byEmployee[t.EmployeeID]
		if !ok {
			u := r.users[t.EmployeeID]
			row = &repository.EmployeeSalesResult{
				EmployeeID: t.EmployeeID,
				FirstName:  u.FirstName,
				LastName:   u.LastName,
				Revenue:    decimal.Zero,
				Cost:       decimal.Zero,
				Margin:     decimal.Zero,
			}
			byEmployee[t.EmployeeID] = row
			order = append(order, t.EmployeeID)
		}
		row.Revenue = row.Revenue.Add(t.TotalAmount)
		row.Cost = row.Cost.Add(t.TotalCost)
		row.Margin = row.Margin.Add(t.Margin)
		row.TransactionCount++
	}
	out := make([]repository.EmployeeSalesResult, 0, len(order))
	for _, id := range order {
		out = append(out, *byEmployee[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Revenue.GreaterThan(out[j].Revenue) })
	return out, nil
}

// --- Settings and ledgers ---

type fakeSettingsRepo struct{ *memStore }

func (r fakeSettingsRepo) Load(ctx context.Context) (entity.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.settings, nil
}

func (r fakeSettingsRepo) Save(ctx context.Context, settings entity.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings = settings
	return nil
}

func (r fakeSettingsRepo) Seed(ctx context.Context, settings entity.Settings) error {
	return nil
}

type fakeLedgerRepo struct{ *memStore }

func (r fakeLedgerRepo) GetByWeek(ctx context.Context, weekID int) (*entity.WeekLedger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.ledgers[weekID]; ok {
		return &l, nil
	}
	return nil, nil
}

func (r fakeLedgerRepo) Upsert(ctx context.Context, ledger *entity.WeekLedger) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ledgers[ledger.WeekID] = *ledger
	return nil
}

func (r fakeLedgerRepo) List(ctx context.Context) ([]entity.WeekLedger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.WeekLedger
	for _, l := range r.ledgers {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekID > out[j].WeekID })
	return out, nil
}

// --- Tombola ---

type fakeTombolaRepo struct{ *memStore }

func (r fakeTombolaRepo) Create(ctx context.Context, ticket *entity.TombolaTicket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tickets {
		if t.TicketNumber == ticket.TicketNumber {
			return fmt.Errorf("%w: tombola_tickets_ticket_number_key", repository.ErrDuplicate)
		}
	}
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	r.tickets = append(r.tickets, *ticket)
	return nil
}

func (r fakeTombolaRepo) List(ctx context.Context) ([]entity.TombolaTicket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]entity.TombolaTicket(nil), r.tickets...)
	sort.Slice(out, func(i, j int) bool { return out[i].TicketNumber < out[j].TicketNumber })
	return out, nil
}

func (r fakeTombolaRepo) ListNonWinning(ctx context.Context) ([]entity.TombolaTicket, error) {
	all, _ := r.List(ctx)
	var out []entity.TombolaTicket
	for _, t := range all {
		if !t.IsWinner {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r fakeTombolaRepo) ListWinners(ctx context.Context) ([]entity.TombolaTicket, error) {
	all, _ := r.List(ctx)
	var out []entity.TombolaTicket
	for _, t := range all {
		if t.IsWinner {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PrizeTier < out[j].PrizeTier })
	return out, nil
}

func (r fakeTombolaRepo) CountWinners(ctx context.Context) (int64, error) {
	winners, _ := r.ListWinners(ctx)
	return int64(len(winners)), nil
}

func (r fakeTombolaRepo) MarkWinner(ctx context.Context, id uuid.UUID, tier enum.PrizeTier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.tickets {
		if r.tickets[i].ID == id {
			r.tickets[i].IsWinner = true
			r.tickets[i].PrizeTier = tier
			return nil
		}
	}
	return fmt.Errorf("ticket %s not found", id)
}

func (r fakeTombolaRepo) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tickets = nil
	return nil
}

// --- Invitations ---

type fakeInvitationRepo struct{ *memStore }

func (r fakeInvitationRepo) Create(ctx context.Context, invitation *entity.Invitation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, i := range r.invitations {
		if i.Code == invitation.Code {
			return fmt.Errorf("%w: invitations_code_key", repository.ErrDuplicate)
		}
	}
	if invitation.ID == uuid.Nil {
		invitation.ID = uuid.New()
	}
	r.invitations[invitation.ID] = *invitation
	return nil
}

func (r fakeInvitationRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i, ok := r.invitations[id]; ok {
		return &i, nil
	}
	return nil, nil
}

func (r fakeInvitationRepo) GetByCode(ctx context.Context, code string) (*entity.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, i := range r.invitations {
		if i.Code == code {
			return &i, nil
		}
	}
	return nil, nil
}

func (r fakeInvitationRepo) MarkUsed(ctx context.Context, id uuid.UUID, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.invitations[id]
	if !ok || i.UsedAt != nil {
		return false, nil
	}
	now := time.Now()
	i.UsedAt = &now
	i.UsedBy = &userID
	r.invitations[id] = i
	return true, nil
}

func (r fakeInvitationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.invitations, id)
	return nil
}

func (r fakeInvitationRepo) List(ctx context.Context) ([]entity.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Invitation
	for _, i := range r.invitations {
		out = append(out, i)
	}
	return out, nil
}

// --- Expense notes ---

type fakeExpenseNoteRepo struct{ *memStore }

func (r fakeExpenseNoteRepo) Create(ctx context.Context, note *entity.ExpenseNote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if note.ID == uuid.Nil {
		note.ID = uuid.New()
	}
	r.notes[note.ID] = *note
	return nil
}

func (r fakeExpenseNoteRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.ExpenseNote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n, ok := r.notes[id]; ok {
		return &n, nil
	}
	return nil, nil
}

func (r fakeExpenseNoteRepo) MarkReviewed(ctx context.Context, note *entity.ExpenseNote) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.notes[note.ID]
	if !ok || !stored.IsPending() {
		return false, nil
	}
	r.notes[note.ID] = *note
	return true, nil
}

func (r fakeExpenseNoteRepo) List(ctx context.Context, params *repository.ExpenseNoteFilterParams) ([]entity.ExpenseNote, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.ExpenseNote
	for _, n := range r.notes {
		if params.EmployeeID != nil && n.EmployeeID != *params.EmployeeID {
			continue
		}
		if params.Status != nil && n.Status != *params.Status {
			continue
		}
		out = append(out, n)
	}
	page, total := paginate(out, params.Pagination)
	return page, total, nil
}

// --- Notifications ---

type fakeNotificationRepo struct{ *memStore }

func (r fakeNotificationRepo) Create(ctx context.Context, notification *entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	r.notifications = append(r.notifications, *notification)
	return nil
}

func (r fakeNotificationRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID == id {
			return &n, nil
		}
	}
	return nil, nil
}

func (r fakeNotificationRepo) List(ctx context.Context, unreadOnly bool, params *pagination.PaginationParams) ([]entity.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Notification
	for _, n := range r.notifications {
		if unreadOnly && n.ReadAt != nil {
			continue
		}
		out = append(out, n)
	}
	page, total := paginate(out, params)
	return page, total, nil
}

func (r fakeNotificationRepo) MarkRead(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for i := range r.notifications {
		if r.notifications[i].ID == id {
			r.notifications[i].ReadAt = &now
		}
	}
	return nil
}

func (r fakeNotificationRepo) MarkAllRead(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	var n int64
	for i := range r.notifications {
		if r.notifications[i].ReadAt == nil {
			r.notifications[i].ReadAt = &now
			n++
		}
	}
	return n, nil
}

func (r fakeNotificationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.notifications {
		if n.ID == id {
			r.notifications = append(r.notifications[:i], r.notifications[i+1:]...)
			break
		}
	}
	return nil
}

func (r fakeNotificationRepo) CountUnread(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, x := range r.notifications {
		if x.ReadAt == nil {
			n++
		}
	}
	return n, nil
}

// --- Easter eggs ---

type fakeEasterEggRepo struct{ *memStore }

func (r fakeEasterEggRepo) Create(ctx context.Context, find *entity.EasterEggFind) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.finds {
		if f.UserID == find.UserID && f.EggKey == find.EggKey {
			return fmt.Errorf("%w: idx_easter_egg_user_key", repository.ErrDuplicate)
		}
	}
	if find.ID == uuid.Nil {
		find.ID = uuid.New()
	}
	r.finds = append(r.finds, *find)
	return nil
}

func (r fakeEasterEggRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.EasterEggFind, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.EasterEggFind
	for _, f := range r.finds {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r fakeEasterEggRepo) Leaderboard(ctx context.Context, limit int) ([]repository.LeaderboardEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byUser := make(map[uuid.UUID]*repository.LeaderboardEntry)
	for _, f := range r.finds {
		e, ok := byUser[f.UserID]
		if !ok {
			u := r.users[f.UserID]
			e = &repository.LeaderboardEntry{UserID: f.UserID, FirstName: u.FirstName, LastName: u.LastName}
			byUser[f.UserID] = e
		}
		e.EggsFound++
		if f.FoundAt.After(e.LastFoundAt) {
			e.LastFoundAt = f.FoundAt
		}
	}
	out := make([]repository.LeaderboardEntry, 0, len(byUser))
	for _, e := range byUser {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EggsFound != out[j].EggsFound {
			return out[i].EggsFound > out[j].EggsFound
		}
		return out[i].LastFoundAt.Before(out[j].LastFoundAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- Holiday market ---

type fakeMarketRepo struct{ *memStore }

func (r fakeMarketRepo) Create(ctx context.Context, sale *entity.MarketSale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	r.marketSales = append(r.marketSales, *sale)
	return nil
}

func (r fakeMarketRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.MarketSale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.marketSales {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, nil
}

func (r fakeMarketRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.marketSales {
		if s.ID == id {
			r.marketSales = append(r.marketSales[:i], r.marketSales[i+1:]...)
			break
		}
	}
	return nil
}

func (r fakeMarketRepo) List(ctx context.Context, weekID *int) ([]entity.MarketSale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.MarketSale
	for _, s := range r.marketSales {
		if weekID == nil || s.WeekID == *weekID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r fakeMarketRepo) TotalsBySeller(ctx context.Context, weekID *int) ([]repository.SellerTotal, error) {
	sales, _ := r.List(ctx, weekID)

	r.mu.Lock()
	defer r.mu.Unlock()
	bySeller := make(map[uuid.UUID]*repository.SellerTotal)
	var order []uuid.UUID
	for _, s := range sales {
		t, ok := bySeller[s.SellerID]
		if !ok {
			u := r.users[s.SellerID]
			t = &repository.SellerTotal{SellerID: s.SellerID, FirstName: u.FirstName, LastName: u.LastName, Total: decimal.Zero}
			bySeller[s.SellerID] = t
			order = append(order, s.SellerID)
		}
		t.Quantity += int64(s.Quantity)
		t.Total = t.Total.Add(s.Total)
	}
	out := make([]repository.SellerTotal, 0, len(order))
	for _, id := range order {
		out = append(out, *bySeller[id])
	}
	return out, nil
}

// --- Side channels ---

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []string
}

func (b *recordingBroadcaster) Broadcast(eventType string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, eventType)
}

func (b *recordingBroadcaster) Events() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.events...)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []notifier.Event
}

func (p *recordingPublisher) Notify(event notifier.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) Names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.events))
	for _, e := range p.events {
		names = append(names, e.Name)
	}
	return names
}

// --- Fixture ---

type fixture struct {
	store       *memStore
	transactor  *fakeTransactor
	broadcaster *recordingBroadcaster
	publisher   *recordingPublisher
	signals     Signals
}

func newFixture() *fixture {
	store := newMemStore()
	f := &fixture{
		store:       store,
		transactor:  &fakeTransactor{store: store},
		broadcaster: &recordingBroadcaster{},
		publisher:   &recordingPublisher{},
	}
	f.signals = Signals{Broadcaster: f.broadcaster, Publisher: f.publisher}
	return f
}

func (f *fixture) weekContext(weekID int) *WeekContext {
	f.store.mu.Lock()
	settings := f.store.settings
	f.store.mu.Unlock()
	return &WeekContext{WeekID: weekID, Settings: settings, StartingBalance: decimal.Zero}
}

func (f *fixture) notifications() *NotificationService {
	return NewNotificationService(fakeNotificationRepo{f.store}, f.signals)
}

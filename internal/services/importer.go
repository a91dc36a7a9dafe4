package services

import (
	"context"
	"crypto/rand"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	catalogrepo "github.com/shopina/shopina-backend/internal/data/repos/catalog"
	orderrepo "github.com/shopina/shopina-backend/internal/data/repos/order"
	userrepo "github.com/shopina/shopina-backend/internal/data/repos/user"
	types "github.com/shopina/shopina-backend/internal/domain"
	"github.com/shopina/shopina-backend/internal/platform/apierr"
	"github.com/shopina/shopina-backend/internal/platform/logger"
)

type ImportRowResult struct {
	Line            int             `json:"line"`
	OrderID         uuid.UUID       `json:"order_id"`
	Customer        string          `json:"customer"`
	CustomerCreated bool            `json:"customer_created"`
	Product         string          `json:"product"`
	ProductMatched  bool            `json:"product_matched"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Total           decimal.Decimal `json:"total"`
	Status          string          `json:"status"`
}

type ImportResult struct {
	Run  *types.ImportRun  `json:"run"`
	Rows []ImportRowResult `json:"rows"`
}

type ImportService interface {
	// ImportCSV parses the uploaded file and creates one order per data row
	// in a single transaction. Any row-level failure aborts the whole batch.
	ImportCSV(ctx context.Context, userID uuid.UUID, filename string, data []byte) (*ImportResult, error)
	ListRuns(ctx context.Context, userID uuid.UUID) ([]*types.ImportRun, error)
}

type importService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      userrepo.UserRepo
	productRepo   catalogrepo.ProductRepo
	orderRepo     orderrepo.OrderRepo
	importRunRepo orderrepo.ImportRunRepo
}

func NewImportService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo userrepo.UserRepo,
	productRepo catalogrepo.ProductRepo,
	orderRepo orderrepo.OrderRepo,
	importRunRepo orderrepo.ImportRunRepo,
) ImportService {
	svcLog := baseLog.With("service", "ImportService")
	return &importService{
		db:            db,
		log:           svcLog,
		userRepo:      userRepo,
		productRepo:   productRepo,
		orderRepo:     orderRepo,
		importRunRepo: importRunRepo,
	}
}

func (s *importService) ImportCSV(ctx context.Context, userID uuid.UUID, filename string, data []byte) (*ImportResult, error) {
	text, err := decodeImportFile(data)
	if err != nil {
		return nil, apierr.Validation("could not decode file: provide utf-8 or latin-1 CSV")
	}

	firstLine, _, _ := strings.Cut(text, "\n")
	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = sniffDelimiter(firstLine)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, apierr.Validation("file has no header row")
	}
	columns := mapImportHeader(header)
	if _, ok := columns[colProduct]; !ok {
		return nil, apierr.Validation("no product column recognized in header")
	}

	var result *ImportResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		result, txErr = s.importRows(ctx, tx, userID, filename, reader, columns)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Import completed",
		"user_id", userID,
		"filename", filename,
		"orders_created", result.Run.OrdersCreated,
		"customers_created", result.Run.CustomersCreated,
	)
	return result, nil
}

func (s *importService) ListRuns(ctx context.Context, userID uuid.UUID) ([]*types.ImportRun, error) {
	return s.importRunRepo.ListByUserID(ctx, nil, userID)
}

func (s *importService) importRows(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	filename string,
	reader *csv.Reader,
	columns map[string]int,
) (*ImportResult, error) {
	run := &types.ImportRun{
		ID:       uuid.New(),
		UserID:   userID,
		Filename: filename,
	}
	rows := []ImportRowResult{}
	// Customers resolved earlier in this run are reused, so the same email,
	// phone or name never creates duplicate accounts within one file.
	customerCache := map[string]*types.User{}

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, apierr.Validation("line %d: malformed CSV: %v", line, err)
		}
		if recordBlank(record) {
			continue
		}
		run.RowCount++

		cell := func(role string) string {
			idx, ok := columns[role]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		productName := cell(colProduct)
		if productName == "" {
			return nil, apierr.Validation("line %d: missing product", line)
		}

		product, err := s.productRepo.GetByName(ctx, tx, productName)
		if err != nil {
			return nil, err
		}

		quantity := parseImportQuantity(cell(colQuantity))
		defaultPrice := decimal.Zero
		if product != nil {
			defaultPrice = product.Price
		}
		unitPrice := parseImportPrice(cell(colUnitPrice), defaultPrice)
		total := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))

		// A positive explicit total wins and the unit price is derived from
		// it, rounded half-up to cents.
		if explicit := parseImportPrice(cell(colTotal), decimal.Zero); explicit.IsPositive() {
			total = explicit
			unitPrice = explicit.DivRound(decimal.NewFromInt(int64(quantity)), 2)
		}

		status := canonicalOrderStatus(cell(colStatus))

		customer, created, err := s.resolveCustomer(ctx, tx, customerCache, customerFields{
			email:    cell(colEmail),
			phone:    cell(colPhone),
			fullName: cell(colCustomerName),
			first:    cell(colFirstName),
			last:     cell(colLastName),
		})
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apierr.Validation("line %d: no customer information", line)
		}
		if created {
			run.CustomersCreated++
		} else {
			run.CustomersMatched++
		}

		order := &types.Order{
			ID:     uuid.New(),
			UserID: customer.ID,
			Status: status,
			Total:  total,
		}
		if _, err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return nil, err
		}
		item := &types.OrderItem{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ProductName: productName,
			Price:       unitPrice,
			Quantity:    quantity,
		}
		if product != nil {
			id := product.ID
			item.ProductID = &id
			item.ProductName = product.Name
		}
		if _, err := s.orderRepo.CreateItems(ctx, tx, []*types.OrderItem{item}); err != nil {
			return nil, err
		}
		run.OrdersCreated++

		rows = append(rows, ImportRowResult{
			Line:            line,
			OrderID:         order.ID,
			Customer:        customer.Email,
			CustomerCreated: created,
			Product:         item.ProductName,
			ProductMatched:  product != nil,
			Quantity:        quantity,
			UnitPrice:       unitPrice,
			Total:           total,
			Status:          status,
		})
	}

	if run.OrdersCreated == 0 {
		return nil, apierr.Validation("no orders found in file")
	}

	summary, err := json.Marshal(rows)
	if err != nil {
		return nil, err
	}
	run.Summary = datatypes.JSON(summary)
	if _, err := s.importRunRepo.Create(ctx, tx, run); err != nil {
		return nil, err
	}

	return &ImportResult{Run: run, Rows: rows}, nil
}

type customerFields struct {
	email    string
	phone    string
	fullName string
	first    string
	last     string
}

func (f customerFields) names() (string, string) {
	if f.first != "" || f.last != "" {
		return f.first, f.last
	}
	return splitFullName(f.fullName)
}

func (f customerFields) cacheKey() string {
	switch {
	case f.email != "":
		return "email:" + strings.ToLower(f.email)
	case f.phone != "":
		return "phone:" + f.phone
	default:
		first, last := f.names()
		return "name:" + strings.ToLower(first+" "+last)
	}
}

func (f customerFields) empty() bool {
	first, last := f.names()
	return f.email == "" && f.phone == "" && first == "" && last == ""
}

// resolveCustomer matches by email, then phone, then full name; a miss
// creates a placeholder account with a random password.
func (s *importService) resolveCustomer(
	ctx context.Context,
	tx *gorm.DB,
	cache map[string]*types.User,
	f customerFields,
) (*types.User, bool, error) {
	if f.empty() {
		return nil, false, nil
	}
	if hit, ok := cache[f.cacheKey()]; ok {
		return hit, false, nil
	}

	var found *types.User
	var err error
	if f.email != "" {
		found, err = s.userRepo.GetByEmail(ctx, tx, f.email)
		if err != nil {
			return nil, false, err
		}
	}
	if found == nil && f.phone != "" {
		found, err = s.userRepo.GetByPhone(ctx, tx, f.phone)
		if err != nil {
			return nil, false, err
		}
	}
	if found == nil {
		first, last := f.names()
		found, err = s.userRepo.GetByName(ctx, tx, first, last)
		if err != nil {
			return nil, false, err
		}
	}
	if found != nil {
		cache[f.cacheKey()] = found
		return found, false, nil
	}

	created, err := s.createImportedCustomer(ctx, tx, f)
	if err != nil {
		return nil, false, err
	}
	cache[f.cacheKey()] = created
	return created, true, nil
}

func (s *importService) createImportedCustomer(ctx context.Context, tx *gorm.DB, f customerFields) (*types.User, error) {
	first, last := f.names()

	email := strings.ToLower(strings.TrimSpace(f.email))
	if email == "" {
		base := types.SlugifyProduct(strings.TrimSpace(first + " " + last))
		if base == "" {
			base = "customer"
		}
		email = base + "@imported.local"
		for n := 2; ; n++ {
			taken, err := s.userRepo.EmailExists(ctx, tx, email)
			if err != nil {
				return nil, err
			}
			if !taken {
				break
			}
			email = fmt.Sprintf("%s%d@imported.local", base, n)
		}
	}

	local, _, _ := strings.Cut(email, "@")
	username := local
	for n := 2; ; n++ {
		taken, err := s.userRepo.UsernameExists(ctx, tx, username)
		if err != nil {
			return nil, err
		}
		if !taken {
			break
		}
		username = fmt.Sprintf("%s%d", local, n)
	}

	password, err := randomPasswordHash()
	if err != nil {
		return nil, err
	}
	user := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Username:  username,
		Password:  password,
		FirstName: first,
		LastName:  last,
		Phone:     strings.TrimSpace(f.phone),
		Plan:      types.PlanFree,
	}
	if _, err := s.userRepo.Create(ctx, tx, []*types.User{user}); err != nil {
		return nil, err
	}
	return user, nil
}

func randomPasswordHash() (string, error) {
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(raw)), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func recordBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

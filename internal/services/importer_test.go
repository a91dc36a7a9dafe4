package services

import (
	"context"
	"testing"

	"github.com/shopina/shopina-backend/internal/data/repos/testutil"
	"github.com/shopina/shopina-backend/internal/platform/apierr"
)

func TestImportCSVFrenchFile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := testutil.SeedUser(t, ctx, env.db, "admin@example.com")
	testutil.SeedProduct(t, ctx, env.db, "Lampe de bureau", "15.00", 50)

	file := "Produit;Quantité;Prix unitaire;Statut;Nom du client;Email client\n" +
		"Lampe de bureau;\"2,5\";\"19,99\";Livré;Marie Dupont;marie@example.fr\n"

	result, err := env.importer.ImportCSV(ctx, admin.ID, "commandes.csv", []byte(file))
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if len(result.Rows) != 1 {
		t.Fatalf("expected one row, got %d", len(result.Rows))
	}
	row := result.Rows[0]
	if row.Quantity != 2 {
		t.Errorf("expected quantity 2 from \"2,5\", got %d", row.Quantity)
	}
	if got := row.UnitPrice.StringFixed(2); got != "19.99" {
		t.Errorf("expected unit price 19.99 from \"19,99\", got %s", got)
	}
	if got := row.Total.StringFixed(2); got != "39.98" {
		t.Errorf("expected total 39.98, got %s", got)
	}
	if row.Status != "completed" {
		t.Errorf("expected status completed from Livré, got %s", row.Status)
	}
	if !row.ProductMatched {
		t.Error("expected product to match by name")
	}
	if !row.CustomerCreated {
		t.Error("expected a new customer for unknown email")
	}
	if result.Run.OrdersCreated != 1 || result.Run.CustomersCreated != 1 {
		t.Errorf("unexpected run counters: %+v", result.Run)
	}

	customer, err := env.userRepo.GetByEmail(ctx, nil, "marie@example.fr")
	if err != nil {
		t.Fatalf("lookup customer: %v", err)
	}
	if customer == nil {
		t.Fatal("expected imported customer persisted")
	}
	if customer.FirstName != "Marie" || customer.LastName != "Dupont" {
		t.Errorf("expected split name, got %q %q", customer.FirstName, customer.LastName)
	}

	orders, err := env.order.List(ctx, customer.ID)
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected one order for customer, got %d", len(orders))
	}
}

func TestImportCSVDedupsCustomersWithinRun(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := testutil.SeedUser(t, ctx, env.db, "admin@example.com")
	existing := testutil.SeedUser(t, ctx, env.db, "known@example.com")

	file := "product,quantity,price,customer,email\n" +
		"Widget,1,5.00,Ann Onymous,new@example.com\n" +
		"Widget,2,5.00,Ann Onymous,new@example.com\n" +
		"Widget,1,5.00,Known Person,known@example.com\n"

	result, err := env.importer.ImportCSV(ctx, admin.ID, "orders.csv", []byte(file))
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if result.Run.OrdersCreated != 3 {
		t.Fatalf("expected 3 orders, got %d", result.Run.OrdersCreated)
	}
	if result.Run.CustomersCreated != 1 {
		t.Errorf("expected 1 new customer, got %d", result.Run.CustomersCreated)
	}
	if result.Run.CustomersMatched != 2 {
		t.Errorf("expected 2 matched rows, got %d", result.Run.CustomersMatched)
	}

	orders, err := env.order.List(ctx, existing.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected existing customer to own one imported order, got %d", len(orders))
	}
}

func TestImportCSVPlaceholderEmailForNamelessContact(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := testutil.SeedUser(t, ctx, env.db, "admin@example.com")

	file := "product,quantity,price,customer\n" +
		"Widget,1,5.00,Jean Dupont\n"

	result, err := env.importer.ImportCSV(ctx, admin.ID, "orders.csv", []byte(file))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if got := result.Rows[0].Customer; got != "jean-dupont@imported.local" {
		t.Fatalf("expected placeholder email, got %q", got)
	}
}

func TestImportCSVExplicitTotalOverridesUnitPrice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := testutil.SeedUser(t, ctx, env.db, "admin@example.com")

	file := "product,quantity,price,total,email\n" +
		"Widget,3,5.00,30.00,buyer@example.com\n"

	result, err := env.importer.ImportCSV(ctx, admin.ID, "orders.csv", []byte(file))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	row := result.Rows[0]
	if got := row.Total.StringFixed(2); got != "30.00" {
		t.Errorf("expected explicit total 30.00, got %s", got)
	}
	if got := row.UnitPrice.StringFixed(2); got != "10.00" {
		t.Errorf("expected derived unit price 10.00, got %s", got)
	}
}

func TestImportCSVUnknownProductPriceFallsBackToZero(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := testutil.SeedUser(t, ctx, env.db, "admin@example.com")

	file := "product,quantity,email\n" +
		"Never Catalogued,2,buyer@example.com\n"

	result, err := env.importer.ImportCSV(ctx, admin.ID, "orders.csv", []byte(file))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	row := result.Rows[0]
	if row.ProductMatched {
		t.Error("expected no catalog match")
	}
	if !row.UnitPrice.IsZero() || !row.Total.IsZero() {
		t.Errorf("expected zero price for unknown product with no price column, got %s/%s", row.UnitPrice, row.Total)
	}
}

func TestImportCSVRejectsEmptyAndHeaderlessFiles(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := testutil.SeedUser(t, ctx, env.db, "admin@example.com")

	_, err := env.importer.ImportCSV(ctx, admin.ID, "empty.csv", []byte(""))
	wantCode(t, err, apierr.CodeValidation)

	_, err = env.importer.ImportCSV(ctx, admin.ID, "noproduct.csv", []byte("foo,bar\n1,2\n"))
	wantCode(t, err, apierr.CodeValidation)

	_, err = env.importer.ImportCSV(ctx, admin.ID, "headeronly.csv", []byte("product,quantity,email\n"))
	wantCode(t, err, apierr.CodeValidation)
}

func TestImportCSVIsNotIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := testutil.SeedUser(t, ctx, env.db, "admin@example.com")

	file := "product,quantity,price,email\n" +
		"Widget,1,5.00,repeat@example.com\n"

	if _, err := env.importer.ImportCSV(ctx, admin.ID, "orders.csv", []byte(file)); err != nil {
		t.Fatalf("first import: %v", err)
	}
	second, err := env.importer.ImportCSV(ctx, admin.ID, "orders.csv", []byte(file))
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if second.Run.CustomersMatched != 1 || second.Run.CustomersCreated != 0 {
		t.Errorf("expected second run to match the existing customer, got %+v", second.Run)
	}

	customer, err := env.userRepo.GetByEmail(ctx, nil, "repeat@example.com")
	if err != nil || customer == nil {
		t.Fatalf("lookup customer: %v", err)
	}
	orders, err := env.order.List(ctx, customer.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected duplicate orders after re-import, got %d", len(orders))
	}

	runs, err := env.importer.ListRuns(ctx, admin.ID)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected two persisted runs, got %d", len(runs))
	}
}

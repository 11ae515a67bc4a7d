package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nordverk/factora_backend/config"
	"github.com/nordverk/factora_backend/models"
	"github.com/nordverk/factora_backend/repository"
	"github.com/nordverk/factora_backend/utils"
	"github.com/nordverk/factora_backend/workflow"
	"github.com/shopspring/decimal"
)

// End-to-end confirm round-trip against real MySQL: advisory lock, FOR UPDATE
// row locks, ledger aggregation and the unique order-number index.
func TestConfirmRoundTrip_MySQL(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := context.Background()

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "factora_test")
	t.Setenv("REDIS_ADDRESS", "")

	config.ConnectDatabaseWithRetry()
	models.MigrateTable()

	db := config.GetDB()
	companyId := uuid.NewString()
	ctx = utils.SetCompanyIdInContext(ctx, companyId)

	customer := &models.Customer{CompanyId: companyId, Name: "Integration Co"}
	if err := db.WithContext(ctx).Create(customer).Error; err != nil {
		t.Fatalf("create customer: %v", err)
	}
	item := &models.InventoryItem{
		CompanyId:  companyId,
		Sku:        "RM-INT-1",
		Name:       "Integration bolt",
		Kind:       models.ItemKindRawMaterial,
		CostPrice:  decimal.NewFromInt(3),
		SalesPrice: decimal.NewFromInt(9),
	}
	if err := db.WithContext(ctx).Create(item).Error; err != nil {
		t.Fatalf("create item: %v", err)
	}

	store := repository.NewGormStore(db)
	ledger := workflow.NewLedgerService(store)
	orders := workflow.NewOrderWorkflow(store)

	if _, err := ledger.RecordTransaction(ctx, companyId, &models.NewInventoryTransaction{
		ItemId:    item.ID,
		Quantity:  decimal.NewFromInt(10),
		Kind:      models.TransactionKindPurchase,
		Reference: "PO-INT-1",
	}); err != nil {
		t.Fatalf("RecordTransaction: %v", err)
	}

	order, err := orders.CreateOrder(ctx, companyId, &models.NewOrder{
		CustomerId: customer.ID,
		Items:      []models.NewOrderItem{{ItemId: item.ID, Quantity: decimal.NewFromInt(6)}},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if !strings.HasPrefix(order.OrderNumber, "ORD-") {
		t.Fatalf("order number = %q", order.OrderNumber)
	}

	confirmed, err := orders.Transition(ctx, companyId, order.ID, models.OrderStatusConfirmed)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirmed.CurrentStatus != models.OrderStatusConfirmed {
		t.Fatalf("status = %s, want Confirmed", confirmed.CurrentStatus)
	}

	onHand, err := ledger.QuantityOnHand(ctx, companyId, item.ID, time.Time{})
	if err != nil {
		t.Fatalf("QuantityOnHand: %v", err)
	}
	if !onHand.Equal(decimal.NewFromInt(4)) {
		t.Fatalf("on hand after confirm = %s, want 4", onHand)
	}

	// A second confirm-sized order must now come up short.
	second, err := orders.CreateOrder(ctx, companyId, &models.NewOrder{
		CustomerId: customer.ID,
		Items:      []models.NewOrderItem{{ItemId: item.ID, Quantity: decimal.NewFromInt(6)}},
	})
	if err != nil {
		t.Fatalf("CreateOrder second: %v", err)
	}
	if second.OrderNumber == order.OrderNumber {
		t.Fatalf("order numbers must be unique, both %q", order.OrderNumber)
	}
	if _, err := orders.Transition(ctx, companyId, second.ID, models.OrderStatusConfirmed); err == nil {
		t.Fatal("second confirm must fail on insufficient stock")
	}
	onHand, err = ledger.QuantityOnHand(ctx, companyId, item.ID, time.Time{})
	if err != nil {
		t.Fatalf("QuantityOnHand: %v", err)
	}
	if !onHand.Equal(decimal.NewFromInt(4)) {
		t.Fatalf("failed confirm must not touch the ledger, on hand = %s", onHand)
	}

	// Racing confirms for the same scarce item: the posting lock hands off
	// only after commit, so the loser must see the winner's deduction and
	// come up short. Exactly one may go through.
	raceItem := &models.InventoryItem{
		CompanyId:  companyId,
		Sku:        "RM-INT-2",
		Name:       "Integration washer",
		Kind:       models.ItemKindRawMaterial,
		CostPrice:  decimal.NewFromInt(1),
		SalesPrice: decimal.NewFromInt(2),
	}
	if err := db.WithContext(ctx).Create(raceItem).Error; err != nil {
		t.Fatalf("create race item: %v", err)
	}
	if _, err := ledger.RecordTransaction(ctx, companyId, &models.NewInventoryTransaction{
		ItemId:    raceItem.ID,
		Quantity:  decimal.NewFromInt(10),
		Kind:      models.TransactionKindPurchase,
		Reference: "PO-INT-2",
	}); err != nil {
		t.Fatalf("RecordTransaction race item: %v", err)
	}

	var raceOrders [2]*models.Order
	for i := range raceOrders {
		o, err := orders.CreateOrder(ctx, companyId, &models.NewOrder{
			CustomerId: customer.ID,
			Items:      []models.NewOrderItem{{ItemId: raceItem.ID, Quantity: decimal.NewFromInt(6)}},
		})
		if err != nil {
			t.Fatalf("CreateOrder race %d: %v", i, err)
		}
		raceOrders[i] = o
	}

	errCh := make(chan error, len(raceOrders))
	for _, o := range raceOrders {
		go func(orderId int) {
			_, err := orders.Transition(ctx, companyId, orderId, models.OrderStatusConfirmed)
			errCh <- err
		}(o.ID)
	}
	confirmedCount := 0
	for range raceOrders {
		err := <-errCh
		if err == nil {
			confirmedCount++
			continue
		}
		var stockErr *models.InsufficientStockError
		if !errors.As(err, &stockErr) {
			t.Fatalf("racing confirm failed with %v, want insufficient stock", err)
		}
	}
	if confirmedCount != 1 {
		t.Fatalf("confirmed %d racing orders, want exactly 1", confirmedCount)
	}
	onHand, err = ledger.QuantityOnHand(ctx, companyId, raceItem.ID, time.Time{})
	if err != nil {
		t.Fatalf("QuantityOnHand race item: %v", err)
	}
	if !onHand.Equal(decimal.NewFromInt(4)) {
		t.Fatalf("on hand after racing confirms = %s, want 4", onHand)
	}
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("factora-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=factora_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	// Example: "127.0.0.1:49154\n"
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}

func dockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}

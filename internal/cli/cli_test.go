package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"storefront/internal/cli"
	"storefront/internal/config"
	"storefront/internal/devserver"
	"storefront/internal/services"
	"storefront/pkg/httpapi"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func devServerConfig(t *testing.T) config.DevServer {
	return config.DevServer{
		Driver:    "sqlite",
		DSN:       "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		UploadDir: t.TempDir(),
		PublicURL: "http://posctl.test",
	}
}

func newDeps(t *testing.T) *cli.Deps {
	t.Helper()
	logger := zaptest.NewLogger(t)
	ds := devServerConfig(t)
	srv, err := devserver.New(devserver.Options{DevServer: ds, Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })

	api, err := httpapi.NewClient(ds.PublicURL, httpapi.WithHTTPClient(srv.Doer()))
	require.NoError(t, err)
	cfg := config.Config{
		Backend:  config.Backend{Concurrency: 4},
		Checkout: config.Checkout{TaxRate: 0.19, EmployeeID: 1},
	}
	return cli.NewDeps(api, cfg, logger, nil)
}

func execute(deps *cli.Deps, args ...string) (string, string, error) {
	cmd := cli.NewRootCommand(cli.WithDeps(deps))
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func createdID(t *testing.T, out string) int64 {
	t.Helper()
	var v struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	require.NotZero(t, v.ID)
	return v.ID
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestCheckoutFromCartFile(t *testing.T) {
	deps := newDeps(t)

	out, _, err := execute(deps, "clients", "create",
		"--documentid", "1234567", "--name", "Ana Perez", "--email", "ana@example.com", "--phone", "3001234567")
	require.NoError(t, err)
	clientID := createdID(t, out)

	out, _, err = execute(deps, "products", "create",
		"--name", "Cable HDMI", "--description", "Cable HDMI de dos metros", "--category", "Accesorios",
		"--cost", "5000", "--price", "8500", "--stock", "10",
		"--image", writeFile(t, "cable.png", pngHeader))
	require.NoError(t, err)
	cableID := createdID(t, out)
	assert.Contains(t, out, "http://posctl.test/files/products/")

	out, _, err = execute(deps, "products", "create",
		"--name", "Router", "--description", "Router inalambrico doble banda", "--category", "Redes",
		"--cost", "15000", "--price", "21900", "--stock", "4",
		"--image", writeFile(t, "router.png", pngHeader))
	require.NoError(t, err)
	routerID := createdID(t, out)

	out, _, err = execute(deps, "services", "create", "--name", "Instalacion", "--price", "1000",
		"--product", fmt.Sprintf("%d=1", cableID))
	require.NoError(t, err)
	serviceID := createdID(t, out)

	cartJSON := fmt.Sprintf(`{
		"client_id": %d,
		"products": [{"id": %d, "quantity": 2}, {"id": %d, "quantity": 1}],
		"services": [{"id": %d, "components": [{"product_id": %d, "quantity": 3}]}]
	}`, clientID, cableID, routerID, serviceID, cableID)
	cartPath := writeFile(t, "cart.json", []byte(cartJSON))

	out, _, err = execute(deps, "checkout", "--cart", cartPath, "--dry-run")
	require.NoError(t, err)
	assert.Equal(t, "total: 41900.00\n", out)

	out, _, err = execute(deps, "checkout", "--cart", cartPath)
	require.NoError(t, err)
	assert.Contains(t, out, "total: 41900.00")
	assert.Contains(t, out, `"status": "Completada"`)
	assert.Contains(t, out, "http://posctl.test/files/invoices/")

	out, _, err = execute(deps, "orders", "list", "--output", "json")
	require.NoError(t, err)
	var orders []struct {
		ID          int64   `json:"id"`
		Status      string  `json:"status"`
		TotalPrice  float64 `json:"total_price"`
		InvoiceLink string  `json:"invoice_link"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, "Completada", orders[0].Status)
	assert.InDelta(t, 41900, orders[0].TotalPrice, 1e-9)
	assert.NotEmpty(t, orders[0].InvoiceLink)

	_, _, err = execute(deps, "orders", "cancel", strconv.FormatInt(orders[0].ID, 10))
	assert.ErrorContains(t, err, "already Completada")
}

func TestCheckoutRequiresClient(t *testing.T) {
	deps := newDeps(t)
	cartPath := writeFile(t, "cart.json", []byte(`{"products": []}`))

	_, _, err := execute(deps, "checkout", "--cart", cartPath)
	assert.ErrorIs(t, err, services.ErrNoClient)

	_, _, err = execute(deps, "checkout")
	assert.ErrorContains(t, err, "--cart required")
}

func TestServicesCompose(t *testing.T) {
	deps := newDeps(t)

	var ids []int64
	for _, name := range []string{"Bracket", "Screws"} {
		out, _, err := execute(deps, "products", "create",
			"--name", name, "--description", "Repuesto de instalacion", "--category", "Herrajes",
			"--price", "10", "--image", writeFile(t, name+".png", pngHeader))
		require.NoError(t, err)
		ids = append(ids, createdID(t, out))
	}

	out, _, err := execute(deps, "services", "create", "--name", "Montaje", "--price", "500",
		"--product", fmt.Sprintf("%d=1", ids[0]))
	require.NoError(t, err)
	serviceID := strconv.FormatInt(createdID(t, out), 10)

	out, _, err = execute(deps, "services", "compose", serviceID,
		"--product", fmt.Sprintf("%d=2", ids[1]))
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("removed [%d], added [%d], updated []\n", ids[0], ids[1]), out)

	out, _, err = execute(deps, "services", "get", serviceID)
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Screws"`)
	assert.NotContains(t, out, `"name": "Bracket"`)

	_, _, err = execute(deps, "services", "compose", serviceID, "--product", "abc")
	assert.ErrorContains(t, err, "invalid component")
}

func TestProductsListAndStock(t *testing.T) {
	deps := newDeps(t)

	out, _, err := execute(deps, "products", "create",
		"--name", "Toner", "--description", "Toner negro original", "--category", "Insumos",
		"--price", "100", "--stock", "1", "--minimum-stock", "3",
		"--image", writeFile(t, "toner.png", pngHeader))
	require.NoError(t, err)
	id := strconv.FormatInt(createdID(t, out), 10)

	out, _, err = execute(deps, "products", "list", "--low-stock")
	require.NoError(t, err)
	assert.Contains(t, out, "Toner | stock 1 | minimum 3")

	out, _, err = execute(deps, "products", "stock", id, "5", "--add")
	require.NoError(t, err)
	assert.Equal(t, "product "+id+" stock is now 6\n", out)

	out, _, err = execute(deps, "products", "update", id, "--price", "120")
	require.NoError(t, err)
	assert.Contains(t, out, `"price": 120`)
	assert.Contains(t, out, `"stock": 6`)

	out, _, err = execute(deps, "products", "list", "--low-stock")
	require.NoError(t, err)
	assert.Empty(t, out)

	_, _, err = execute(deps, "products", "delete", id)
	require.NoError(t, err)
	_, _, err = execute(deps, "products", "delete", id)
	assert.True(t, httpapi.IsNotFound(err))
}

func TestEmbeddedBackend(t *testing.T) {
	ds := devServerConfig(t)
	v := viper.New()
	v.Set("log_level", "error")
	v.Set("devserver.dsn", ds.DSN)
	v.Set("devserver.upload_dir", ds.UploadDir)

	cmd := cli.NewRootCommand(cli.WithViper(v))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--embedded", "clients", "list"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Empty(t, out.String())
}

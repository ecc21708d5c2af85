package csvtable

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/conutlabs/chiefops/pkg/config"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func testDataConfig(dir string) config.DataConfig {
	return config.DataConfig{
		Dir:             dir,
		BasketLines:     "baskets.csv",
		MonthlySales:    "monthly.csv",
		ChannelSummary:  "channels.csv",
		ItemSales:       "items.csv",
		DivisionChannel: "divisions.csv",
		CustomerOrders:  "customers.csv",
		Attendance:      "attendance.csv",
		CandidateAreas:  "areas.csv",
	}
}

func TestBasketLinesParsesRows(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "baskets.csv",
		"branch,basket_id,item,qty,price,line_total,cancelled,modifier\n"+
			"Salmiya,B1,LATTE,2,1.5,3.0,0,0\n"+
			"Salmiya,B1,BROWNIE,1,2.0,2.0,1,0\n")

	store := NewStore(testDataConfig(dir), zap.NewNop())

	rows, err := store.BasketLines(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Item != "LATTE" || rows[0].Qty != 2 || rows[0].LineTotal != 3.0 {
		t.Errorf("first row parsed wrong: %+v", rows[0])
	}
	if !rows[1].Cancelled {
		t.Errorf("expected second row cancelled")
	}
}

func TestBasketLinesRequireIndicatorColumns(t *testing.T) {
	dir := t.TempDir()
	// A snapshot without the cancellation column would silently let every
	// cancelled line into the combo engine; it must fail the load instead.
	writeFile(t, dir, "baskets.csv",
		"branch,basket_id,item,qty,price,line_total\n"+
			"Salmiya,B1,LATTE,2,1.5,3.0\n")
	store := NewStore(testDataConfig(dir), zap.NewNop())

	_, err := store.BasketLines(context.Background())
	if err == nil {
		t.Fatal("expected error for missing indicator columns")
	}
	if !strings.Contains(err.Error(), `"cancelled"`) || !strings.Contains(err.Error(), "basket_lines") {
		t.Errorf("error should name the column and table, got: %v", err)
	}
}

func TestMissingFileNamesThePath(t *testing.T) {
	store := NewStore(testDataConfig(t.TempDir()), zap.NewNop())

	_, err := store.MonthlySales(context.Background())
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "monthly.csv") {
		t.Errorf("error should name the missing file, got: %v", err)
	}
}

func TestMissingColumnNamesColumnAndTable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "monthly.csv", "branch,year,total\nSalmiya,2025,1000\n")
	store := NewStore(testDataConfig(dir), zap.NewNop())

	_, err := store.MonthlySales(context.Background())
	if err == nil {
		t.Fatal("expected error for missing column")
	}
	if !strings.Contains(err.Error(), `"month"`) || !strings.Contains(err.Error(), "monthly_sales") {
		t.Errorf("error should name the column and table, got: %v", err)
	}
}

func TestMalformedNumericCellsCoerceToZero(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "monthly.csv",
		"branch,year,month,total\nSalmiya,2025,Jan,n/a\nSalmiya,2025,Feb,\"1,250.5\"\n")
	store := NewStore(testDataConfig(dir), zap.NewNop())

	rows, err := store.MonthlySales(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].Total != 0 {
		t.Errorf("malformed cell should coerce to zero, got %v", rows[0].Total)
	}
	if rows[1].Total != 1250.5 {
		t.Errorf("thousands separator should be stripped, got %v", rows[1].Total)
	}
}

func TestLoadErrorIsSticky(t *testing.T) {
	store := NewStore(testDataConfig(t.TempDir()), zap.NewNop())

	_, err1 := store.BasketLines(context.Background())
	_, err2 := store.BasketLines(context.Background())
	if err1 == nil || err2 == nil {
		t.Fatal("expected both calls to fail")
	}
	if err1.Error() != err2.Error() {
		t.Errorf("memoized error changed between calls: %v vs %v", err1, err2)
	}
}

func TestBranchesSortedAndDeduplicated(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "monthly.csv",
		"branch,year,month,total\n"+
			"Salmiya,2025,Jan,100\n"+
			"Avenues,2025,Jan,200\n"+
			"Salmiya,2025,Feb,150\n")
	store := NewStore(testDataConfig(dir), zap.NewNop())

	branches, err := store.Branches(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(branches) != 2 || branches[0] != "Avenues" || branches[1] != "Salmiya" {
		t.Errorf("expected sorted unique branches, got %v", branches)
	}
}

func TestCandidateAreasFlags(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "areas.csv",
		"area,governorate,estimated_population,university_nearby,foot_traffic_tier,commercial_rent_tier,estimated_cafe_density,chain_present\n"+
			"Hawally,Hawally,250000,1,3,2,medium,0\n")
	store := NewStore(testDataConfig(dir), zap.NewNop())

	areas, err := store.CandidateAreas(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a := areas[0]
	if !a.UniversityNearby || a.ChainPresent {
		t.Errorf("flag columns parsed wrong: %+v", a)
	}
	if a.Population != 250000 || a.FootTrafficTier != 3 {
		t.Errorf("numeric columns parsed wrong: %+v", a)
	}
}

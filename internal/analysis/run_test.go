package analysis

import (
	"errors"
	"reflect"
	"testing"

	"github.com/pgEdge/pgedge-dashboard/internal/dataset"
	"github.com/pgEdge/pgedge-dashboard/internal/testutil"
)

func TestRun(t *testing.T) {
	d := testutil.LoadDataset(t, testutil.SampleRows())

	res, err := Run(d)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Products.Top.ProductID != "A" || res.Products.Top.Category != Expensive {
		t.Errorf("Unexpected top product: %+v", res.Products.Top)
	}
	if len(res.Delivery) != 1 || res.Delivery[0].City != "X" || res.Delivery[0].AvgDeliveryDays != 3 {
		t.Errorf("Unexpected delivery result: %+v", res.Delivery)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	rows := testutil.SampleRows()
	rows[dataset.Items] = append(rows[dataset.Items], "1,2,B,s1,,25.90,2")
	rows[dataset.Products] = append(rows[dataset.Products], "B,bebes,1,1,1,1,1,1,1")
	rows[dataset.Geolocation] = append(rows[dataset.Geolocation], "100,-23.4,-46.5,X,SP", "100,-23.3,-46.4,Y,SP")
	dir := testutil.WriteDataset(t, rows)

	first, err := dataset.LoadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	second, err := dataset.LoadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	a, err := Run(first)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	b, err := Run(second)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Expected identical results, got %+v and %+v", a, b)
	}
}

func TestRunPropagatesErrors(t *testing.T) {
	rows := testutil.SampleRows()
	rows[dataset.Reviews] = nil
	_, err := Run(testutil.LoadDataset(t, rows))
	if !errors.Is(err, ErrEmptyResult) {
		t.Errorf("Expected ErrEmptyResult, got %v", err)
	}

	_, err = Run(dataset.New())
	var missing *dataset.MissingFileError
	if !errors.As(err, &missing) {
		t.Errorf("Expected MissingFileError, got %v", err)
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		input   string
		want    Kind
		wantErr bool
	}{
		{"", KindProductPositivity, false},
		{"product-positivity", KindProductPositivity, false},
		{"DELIVERY-BY-CITY", KindDeliveryByCity, false},
		{"Product with most positive reviews", KindProductPositivity, false},
		{"Average delivery time per geographic location", KindDeliveryByCity, false},
		{"sales", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseKind(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestKinds(t *testing.T) {
	kinds := Kinds()
	if len(kinds) != 2 {
		t.Fatalf("Expected exactly 2 kinds, got %d", len(kinds))
	}
	for _, k := range kinds {
		if k.Slug() == "" || k.Label() == "" || k.Description() == "" {
			t.Errorf("Kind %d has empty metadata", int(k))
		}
		if k.String() != k.Slug() {
			t.Errorf("Expected String() %s, got %s", k.Slug(), k.String())
		}
	}
	if got := Kind(42).String(); got != "Kind(42)" {
		t.Errorf("Expected Kind(42), got %s", got)
	}
}

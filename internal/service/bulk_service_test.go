package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/arnesssr/nextpms-sub000/internal/dto"
	"github.com/arnesssr/nextpms-sub000/internal/model"
	"github.com/arnesssr/nextpms-sub000/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildBulkSvc() (service.BulkService, *stubProductRepo, *stubHistoryRepo) {
	products := newStubProductRepo()
	history := newStubHistoryRepo()
	svc := service.NewBulkService(products, history, nil, dec("20"))
	return svc, products, history
}

func pctIncrease(value string) dto.BulkUpdateSpec {
	return dto.BulkUpdateSpec{
		UpdateType: "percentage_increase",
		Value:      dec(value),
		Reason:     "Supplier cost increase",
	}
}

// ── Preview ───────────────────────────────────────────────────────────────────

func TestBulkPreview_AllPolicy(t *testing.T) {
	svc, products, _ := buildBulkSvc()
	seedProduct(products, "Alpha", "SKU-001", "50", "100")
	seedProduct(products, "Beta", "SKU-002", "100", "200")
	seedUnpricedProduct(products, "Draft", "SKU-003")

	resp, err := svc.Preview(context.Background(), dto.BulkPreviewRequest{
		Selection: dto.BulkSelectionRequest{Policy: "all"},
		Update:    pctIncrease("10"),
	})

	require.NoError(t, err)
	require.Len(t, resp.Items, 2, "unpriced products are never candidates")
	assert.Equal(t, "Alpha", resp.Items[0].Name)
	assert.True(t, dec("110").Equal(resp.Items[0].NewPrice))
	assert.True(t, dec("220").Equal(resp.Items[1].NewPrice))

	assert.True(t, resp.Loaded)
	assert.Equal(t, 2, resp.Summary.TotalCandidates)
	assert.Equal(t, 2, resp.Summary.SelectedCount)
	assert.True(t, dec("300").Equal(resp.Summary.TotalCurrentValue))
	assert.True(t, dec("330").Equal(resp.Summary.TotalNewValue))
	assert.True(t, dec("30").Equal(resp.Summary.TotalChange))
}

func TestBulkPreview_Idempotent(t *testing.T) {
	svc, products, _ := buildBulkSvc()
	seedProduct(products, "Alpha", "SKU-001", "50", "100")
	seedProduct(products, "Beta", "SKU-002", "100", "200")

	req := dto.BulkPreviewRequest{
		Selection: dto.BulkSelectionRequest{Policy: "all"},
		Update:    pctIncrease("10"),
	}

	first, err := svc.Preview(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Preview(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	// Previewing must not touch the store.
	for _, p := range products.products {
		assert.True(t, dec("100").Equal(*p.SellingPrice) || dec("200").Equal(*p.SellingPrice))
	}
}

func TestBulkPreview_DeselectionExcludesFromTotalsOnly(t *testing.T) {
	svc, products, _ := buildBulkSvc()
	a := seedProduct(products, "Alpha", "SKU-001", "50", "100")
	seedProduct(products, "Beta", "SKU-002", "100", "200")

	resp, err := svc.Preview(context.Background(), dto.BulkPreviewRequest{
		Selection:     dto.BulkSelectionRequest{Policy: "all"},
		Update:        pctIncrease("10"),
		DeselectedIDs: []string{a.ID.String()},
	})

	require.NoError(t, err)
	// The deselected row is still shown, just unticked.
	require.Len(t, resp.Items, 2)
	assert.False(t, resp.Items[0].Selected)
	assert.True(t, resp.Items[1].Selected)

	// The candidate count still covers the deselected row.
	assert.Equal(t, 2, resp.Summary.TotalCandidates)
	assert.Equal(t, 1, resp.Summary.SelectedCount)
	assert.True(t, dec("200").Equal(resp.Summary.TotalCurrentValue))
	assert.True(t, dec("220").Equal(resp.Summary.TotalNewValue))
}

func TestBulkPreview_CategoryPolicy(t *testing.T) {
	svc, products, _ := buildBulkSvc()
	categoryID := uuid.New()
	a := seedProduct(products, "Alpha", "SKU-001", "50", "100")
	a.CategoryID = &categoryID
	seedProduct(products, "Beta", "SKU-002", "100", "200")

	resp, err := svc.Preview(context.Background(), dto.BulkPreviewRequest{
		Selection: dto.BulkSelectionRequest{Policy: "category", CategoryID: categoryID.String()},
		Update:    pctIncrease("10"),
	})

	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Alpha", resp.Items[0].Name)
}

func TestBulkPreview_EmptyCategoryClearsPreview(t *testing.T) {
	svc, products, _ := buildBulkSvc()
	seedProduct(products, "Alpha", "SKU-001", "50", "100")

	resp, err := svc.Preview(context.Background(), dto.BulkPreviewRequest{
		Selection: dto.BulkSelectionRequest{Policy: "category", CategoryID: ""},
		Update:    pctIncrease("10"),
	})

	// No category chosen yet is a blank state, not an error.
	require.NoError(t, err)
	assert.False(t, resp.Loaded)
	assert.Empty(t, resp.Items)
	assert.Equal(t, 0, resp.Summary.SelectedCount)
	assert.True(t, resp.Summary.TotalChange.IsZero())
}

func TestBulkPreview_CategoryWithoutPricedProducts(t *testing.T) {
	svc, products, _ := buildBulkSvc()
	categoryID := uuid.New()
	draft := seedUnpricedProduct(products, "Draft", "SKU-001")
	draft.CategoryID = &categoryID

	resp, err := svc.Preview(context.Background(), dto.BulkPreviewRequest{
		Selection: dto.BulkSelectionRequest{Policy: "category", CategoryID: categoryID.String()},
		Update:    pctIncrease("10"),
	})

	require.NoError(t, err)
	assert.True(t, resp.Loaded, "a real fetch that matched nothing is still loaded")
	assert.Empty(t, resp.Items)
}

func TestBulkPreview_BlankCategoryDistinctFromEmptyFetch(t *testing.T) {
	svc, products, _ := buildBulkSvc()
	categoryID := uuid.New()
	draft := seedUnpricedProduct(products, "Draft", "SKU-001")
	draft.CategoryID = &categoryID

	blank, err := svc.Preview(context.Background(), dto.BulkPreviewRequest{
		Selection: dto.BulkSelectionRequest{Policy: "category", CategoryID: ""},
		Update:    pctIncrease("10"),
	})
	require.NoError(t, err)

	empty, err := svc.Preview(context.Background(), dto.BulkPreviewRequest{
		Selection: dto.BulkSelectionRequest{Policy: "category", CategoryID: categoryID.String()},
		Update:    pctIncrease("10"),
	})
	require.NoError(t, err)

	// Both come back with zero rows, but a client can tell the blank form
	// state apart from a category that genuinely has no priced products.
	require.NotEqual(t, blank, empty)
	assert.False(t, blank.Loaded)
	assert.True(t, empty.Loaded)
}

func TestBulkPreview_LowMarginPolicy(t *testing.T) {
	svc, products, _ := buildBulkSvc()
	seedProduct(products, "Thin", "SKU-001", "90", "100")  // 10% margin
	seedProduct(products, "Fat", "SKU-002", "50", "100")   // 50% margin

	resp, err := svc.Preview(context.Background(), dto.BulkPreviewRequest{
		Selection: dto.BulkSelectionRequest{Policy: "low_margin"},
		Update:    pctIncrease("10"),
	})

	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Thin", resp.Items[0].Name)
}

func TestBulkPreview_CustomPolicy(t *testing.T) {
	svc, products, _ := buildBulkSvc()
	a := seedProduct(products, "Alpha", "SKU-001", "50", "100")
	seedProduct(products, "Beta", "SKU-002", "100", "200")

	resp, err := svc.Preview(context.Background(), dto.BulkPreviewRequest{
		Selection: dto.BulkSelectionRequest{Policy: "custom", ProductIDs: []string{a.ID.String()}},
		Update:    pctIncrease("10"),
	})

	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, a.ID.String(), resp.Items[0].ProductID)
}

func TestBulkPreview_ClassifiesMargins(t *testing.T) {
	svc, products, _ := buildBulkSvc()
	seedProduct(products, "Loss", "SKU-001", "100", "120")
	seedProduct(products, "Low", "SKU-002", "100", "120")
	seedProduct(products, "Good", "SKU-003", "50", "120")

	// 50% off: Loss sells at 60 vs cost 100 (negative margin),
	// Low at 60 vs... same cost; use distinct costs instead.
	products.products[firstIDByName(products, "Low")].CostPrice = decPtr("55")

	resp, err := svc.Preview(context.Background(), dto.BulkPreviewRequest{
		Selection: dto.BulkSelectionRequest{Policy: "all"},
		Update: dto.BulkUpdateSpec{
			UpdateType: "percentage_decrease",
			Value:      dec("50"),
			Reason:     "Clearance event",
		},
	})

	require.NoError(t, err)
	require.Len(t, resp.Items, 3)
	byName := map[string]string{}
	for _, it := range resp.Items {
		byName[it.Name] = it.Classification
	}
	assert.Equal(t, "loss", byName["Loss"]) // 60 vs cost 100
	assert.Equal(t, "low", byName["Low"])   // 60 vs cost 55 → ~8.3%
	assert.Equal(t, "good", byName["Good"]) // 60 vs cost 50 → ~16.7%
}

func TestBulkPreview_CostField(t *testing.T) {
	svc, products, _ := buildBulkSvc()
	seedProduct(products, "Alpha", "SKU-001", "10", "18")

	spec := pctIncrease("10")
	spec.PriceField = "cost"
	resp, err := svc.Preview(context.Background(), dto.BulkPreviewRequest{
		Selection: dto.BulkSelectionRequest{Policy: "all"},
		Update:    spec,
	})

	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	it := resp.Items[0]
	assert.True(t, dec("10").Equal(it.CurrentPrice), "current value is the cost being adjusted")
	assert.True(t, dec("11").Equal(it.NewPrice))
	assert.True(t, dec("1").Equal(it.PriceChange))
	assert.True(t, dec("10").Equal(it.PriceChangePct))
	// Margin is the unchanged selling price of 18 against the new cost.
	assert.True(t, dec("38.9").Equal(it.NewMarginPct))
}

func TestBulkPreview_TargetMarginOnCostRejected(t *testing.T) {
	svc, products, _ := buildBulkSvc()
	seedProduct(products, "Alpha", "SKU-001", "10", "18")

	spec := dto.BulkUpdateSpec{
		UpdateType: "target_margin",
		PriceField: "cost",
		Value:      dec("40"),
		Reason:     "Margin campaign",
	}
	_, err := svc.Preview(context.Background(), dto.BulkPreviewRequest{
		Selection: dto.BulkSelectionRequest{Policy: "all"},
		Update:    spec,
	})

	var ruleErr *service.RuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Contains(t, ruleErr.Messages, "Target margin updates apply to the selling price")
}

func firstIDByName(repo *stubProductRepo, name string) uuid.UUID {
	for id, p := range repo.products {
		if p.Name == name {
			return id
		}
	}
	return uuid.Nil
}

// ── Commit ────────────────────────────────────────────────────────────────────

func TestBulkCommit(t *testing.T) {
	svc, products, history := buildBulkSvc()
	a := seedProduct(products, "Alpha", "SKU-001", "50", "100")
	b := seedProduct(products, "Beta", "SKU-002", "100", "200")

	resp, err := svc.Commit(context.Background(), "ops@example.com", dto.BulkCommitRequest{
		ProductIDs: []string{a.ID.String(), b.ID.String()},
		Update:     pctIncrease("10"),
	})

	require.NoError(t, err)
	assert.Equal(t, 2, resp.Succeeded)
	assert.Empty(t, resp.Failed)

	assert.True(t, dec("110").Equal(*products.products[a.ID].SellingPrice))
	assert.True(t, dec("220").Equal(*products.products[b.ID].SellingPrice))

	require.Len(t, history.rows, 2)
	for _, h := range history.rows {
		assert.Equal(t, model.ChangeBulk, h.ChangeType)
		assert.Equal(t, "ops@example.com", h.ChangedBy)
		assert.Equal(t, "Supplier cost increase", h.ChangeReason)
	}
}

func TestBulkCommit_CostField(t *testing.T) {
	svc, products, history := buildBulkSvc()
	a := seedProduct(products, "Alpha", "SKU-001", "10", "18")

	spec := pctIncrease("10")
	spec.PriceField = "cost"
	resp, err := svc.Commit(context.Background(), "ops@example.com", dto.BulkCommitRequest{
		ProductIDs: []string{a.ID.String()},
		Update:     spec,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Succeeded)

	// The cost moved; the selling price did not.
	assert.True(t, dec("11").Equal(*products.products[a.ID].CostPrice))
	assert.True(t, dec("18").Equal(*products.products[a.ID].SellingPrice))
	assert.True(t, dec("38.89").Equal(*products.products[a.ID].MarginPct))

	require.Len(t, history.rows, 1)
	h := history.rows[0]
	assert.True(t, dec("18").Equal(h.OldPrice))
	assert.True(t, dec("18").Equal(h.NewPrice))
	assert.True(t, dec("10").Equal(*h.OldCost))
	assert.True(t, dec("11").Equal(*h.NewCost))
	assert.Equal(t, model.ChangeBulk, h.ChangeType)
}

func TestBulkCommit_TargetMarginOnCostRejected(t *testing.T) {
	svc, products, history := buildBulkSvc()
	a := seedProduct(products, "Alpha", "SKU-001", "10", "18")

	_, err := svc.Commit(context.Background(), "ops@example.com", dto.BulkCommitRequest{
		ProductIDs: []string{a.ID.String()},
		Update: dto.BulkUpdateSpec{
			UpdateType: "target_margin",
			PriceField: "cost",
			Value:      dec("40"),
			Reason:     "Margin campaign",
		},
	})

	var ruleErr *service.RuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Contains(t, ruleErr.Messages, "Target margin updates apply to the selling price")
	assert.True(t, dec("10").Equal(*products.products[a.ID].CostPrice))
	assert.Empty(t, history.rows)
}

func TestBulkCommit_PartialFailureContinues(t *testing.T) {
	svc, products, history := buildBulkSvc()
	a := seedProduct(products, "Alpha", "SKU-001", "50", "100")
	b := seedProduct(products, "Beta", "SKU-002", "100", "200")
	c := seedProduct(products, "Gamma", "SKU-003", "10", "20")
	products.failUpdate[b.ID] = errors.New("write conflict")

	resp, err := svc.Commit(context.Background(), "ops@example.com", dto.BulkCommitRequest{
		ProductIDs: []string{a.ID.String(), b.ID.String(), c.ID.String()},
		Update:     pctIncrease("10"),
	})

	require.NoError(t, err, "item failures never abort the batch")
	assert.Equal(t, 2, resp.Succeeded)
	require.Len(t, resp.Failed, 1)
	assert.Equal(t, b.ID.String(), resp.Failed[0].ProductID)
	assert.Contains(t, resp.Failed[0].Error, "write conflict")

	// The failed product is untouched; the ones after it were still applied.
	assert.True(t, dec("200").Equal(*products.products[b.ID].SellingPrice))
	assert.True(t, dec("22").Equal(*products.products[c.ID].SellingPrice))
	assert.Len(t, history.rows, 2)
}

func TestBulkCommit_MissingProductIsPerItemFailure(t *testing.T) {
	svc, products, _ := buildBulkSvc()
	a := seedProduct(products, "Alpha", "SKU-001", "50", "100")

	resp, err := svc.Commit(context.Background(), "ops@example.com", dto.BulkCommitRequest{
		ProductIDs: []string{uuid.New().String(), a.ID.String()},
		Update:     pctIncrease("10"),
	})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Succeeded)
	require.Len(t, resp.Failed, 1)
	assert.Contains(t, resp.Failed[0].Error, "not found")
}

func TestBulkCommit_EmptySelectionRejected(t *testing.T) {
	svc, _, _ := buildBulkSvc()

	_, err := svc.Commit(context.Background(), "ops@example.com", dto.BulkCommitRequest{
		ProductIDs: []string{},
		Update:     pctIncrease("10"),
	})

	var ruleErr *service.RuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Contains(t, ruleErr.Messages, "At least one product must be selected")
}

func TestBulkCommit_ZeroValueRejected(t *testing.T) {
	svc, products, history := buildBulkSvc()
	a := seedProduct(products, "Alpha", "SKU-001", "50", "100")

	_, err := svc.Commit(context.Background(), "ops@example.com", dto.BulkCommitRequest{
		ProductIDs: []string{a.ID.String()},
		Update: dto.BulkUpdateSpec{
			UpdateType: "percentage_increase",
			Value:      dec("0"),
			Reason:     "Supplier cost increase",
		},
	})

	var ruleErr *service.RuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Contains(t, ruleErr.Messages, "Update value must not be zero")
	assert.Empty(t, history.rows)
}

func TestBulkCommit_CandidateFetchFailureAbortsBeforeMutation(t *testing.T) {
	svc, products, history := buildBulkSvc()
	a := seedProduct(products, "Alpha", "SKU-001", "50", "100")
	products.listErr = errors.New("connection reset")

	_, err := svc.Commit(context.Background(), "ops@example.com", dto.BulkCommitRequest{
		ProductIDs: []string{a.ID.String()},
		Update:     pctIncrease("10"),
	})

	assert.Error(t, err)
	assert.True(t, dec("100").Equal(*products.products[a.ID].SellingPrice))
	assert.Empty(t, history.rows)
}

func TestBulkCommit_ClampsToFloor(t *testing.T) {
	svc, products, _ := buildBulkSvc()
	a := seedProduct(products, "Alpha", "SKU-001", "1", "5")

	resp, err := svc.Commit(context.Background(), "ops@example.com", dto.BulkCommitRequest{
		ProductIDs: []string{a.ID.String()},
		Update: dto.BulkUpdateSpec{
			UpdateType: "fixed_decrease",
			Value:      dec("10"),
			Reason:     "Clearance event",
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Succeeded)
	assert.True(t, dec("0.01").Equal(*products.products[a.ID].SellingPrice))
}

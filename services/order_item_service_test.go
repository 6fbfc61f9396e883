package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/tavolo-pos/backend/models"
	"github.com/tavolo-pos/backend/services"
)

func editInTx(t *testing.T, db *gorm.DB, in services.EditItemInput) (string, error) {
	t.Helper()
	var op string
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		op, err = services.EditItem(tx, in)
		return err
	})
	return op, err
}

func TestEditItemSplitConservesQuantity(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	order := f.newOrder(t, db)
	item := f.newItem(t, db, order, 5, nil)

	op, err := editInTx(t, db, services.EditItemInput{
		ItemID:   item.ID,
		Quantity: 2,
		Notes:    "extra crispy",
	})
	assert.NoError(t, err)
	assert.Equal(t, services.OpSplit, op)

	original := loadItem(t, db, item.ID)
	assert.Equal(t, 3, original.Quantity)
	assert.Equal(t, "", original.Notes)

	var items []models.OrderItem
	assert.NoError(t, db.Where("order_id = ?", order.ID).Find(&items).Error)
	assert.Len(t, items, 2)

	total := 0
	for _, it := range items {
		total += it.Quantity
	}
	assert.Equal(t, 5, total)

	var carved models.OrderItem
	assert.NoError(t, db.Where("id <> ?", item.ID).First(&carved).Error)
	assert.Equal(t, 2, carved.Quantity)
	assert.Equal(t, "extra crispy", carved.Notes)
	assert.Equal(t, item.MenuItemName, carved.MenuItemName)
	assert.Equal(t, item.PriceEach, carved.PriceEach)
	assert.Equal(t, item.Status, carved.Status)
	assert.Equal(t, item.RequiresFiring, carved.RequiresFiring)
}

func TestEditItemSplitFoldsIntoEqualPendingItem(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	order := f.newOrder(t, db)

	existing := f.newItem(t, db, order, 3, func(i *models.OrderItem) { i.Notes = "no onion" })
	edited := f.newItem(t, db, order, 5, nil)

	op, err := editInTx(t, db, services.EditItemInput{
		ItemID:   edited.ID,
		Quantity: 2,
		Notes:    "no onion",
	})
	assert.NoError(t, err)
	assert.Equal(t, services.OpSplit, op)

	// Carved quantity folded straight into the equal item instead of
	// persisting as a third row.
	assert.EqualValues(t, 2, countItems(t, db))
	assert.Equal(t, 5, loadItem(t, db, existing.ID).Quantity)
	assert.Equal(t, 3, loadItem(t, db, edited.ID).Quantity)
}

func TestEditItemFullUpdateConsolidatesViaHook(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	order := f.newOrder(t, db)

	existing := f.newItem(t, db, order, 2, nil)
	edited := f.newItem(t, db, order, 1, func(i *models.OrderItem) { i.Notes = "rush" })

	// Full-quantity edit that makes the item identical to the existing one.
	op, err := editInTx(t, db, services.EditItemInput{
		ItemID:   edited.ID,
		Quantity: 1,
	})
	assert.NoError(t, err)
	assert.Equal(t, services.OpUpdate, op)

	assert.EqualValues(t, 1, countItems(t, db))
	assert.Equal(t, 3, loadItem(t, db, existing.ID).Quantity)
}

func TestEditItemFullUpdateReplacesSets(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	order := f.newOrder(t, db)

	item := f.newItem(t, db, order, 2, func(i *models.OrderItem) {
		i.SelectedExtras = []models.Extra{f.extraA}
	})

	op, err := editInTx(t, db, services.EditItemInput{
		ItemID:               item.ID,
		Quantity:             2,
		Course:               "secondi",
		ExtraIDs:             []uint{f.extraB.ID},
		RemovedIngredientIDs: []uint{f.onion.ID},
	})
	assert.NoError(t, err)
	assert.Equal(t, services.OpUpdate, op)

	updated := loadItem(t, db, item.ID)
	assert.Equal(t, "secondi", updated.Course)
	assert.Len(t, updated.SelectedExtras, 1)
	assert.Equal(t, f.extraB.ID, updated.SelectedExtras[0].ID)
	assert.Len(t, updated.RemovedIngredients, 1)
	assert.Equal(t, f.onion.ID, updated.RemovedIngredients[0].ID)
}

func TestEditItemRejectsExcessQuantity(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	order := f.newOrder(t, db)
	item := f.newItem(t, db, order, 3, nil)

	_, err := editInTx(t, db, services.EditItemInput{
		ItemID:   item.ID,
		Quantity: 4,
		Notes:    "should not stick",
	})
	assert.ErrorIs(t, err, services.ErrQuantityExceeds)

	unchanged := loadItem(t, db, item.ID)
	assert.Equal(t, 3, unchanged.Quantity)
	assert.Equal(t, "", unchanged.Notes)
	assert.EqualValues(t, 1, countItems(t, db))
}

func TestEditItemRejectsNonPositiveQuantity(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	item := f.newItem(t, db, f.newOrder(t, db), 3, nil)

	_, err := editInTx(t, db, services.EditItemInput{ItemID: item.ID, Quantity: 0})
	assert.ErrorIs(t, err, services.ErrInvalidQuantity)
}

func TestUpdateItemStatusStampsFiredAt(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	order := f.newOrder(t, db)

	a := f.newItem(t, db, order, 1, nil)
	b := f.newItem(t, db, order, 2, func(i *models.OrderItem) { i.Notes = "b" })
	untouched := f.newItem(t, db, order, 1, func(i *models.OrderItem) { i.Notes = "c" })

	err := db.Transaction(func(tx *gorm.DB) error {
		return services.UpdateItemStatus(tx, models.ItemStatusFired, []uint{a.ID, b.ID})
	})
	assert.NoError(t, err)

	for _, id := range []uint{a.ID, b.ID} {
		got := loadItem(t, db, id)
		assert.Equal(t, models.ItemStatusFired, got.Status)
		assert.NotNil(t, got.FiredAt)
	}

	other := loadItem(t, db, untouched.ID)
	assert.Equal(t, models.ItemStatusPending, other.Status)
	assert.Nil(t, other.FiredAt)
}

func TestUpdateItemStatusStampsFiredAtOnce(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	item := f.newItem(t, db, f.newOrder(t, db), 1, nil)

	assert.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return services.UpdateItemStatus(tx, models.ItemStatusFired, []uint{item.ID})
	}))
	firstStamp := loadItem(t, db, item.ID).FiredAt
	assert.NotNil(t, firstStamp)

	// Bounce through cooking and back to fired; the stamp must not move.
	assert.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return services.UpdateItemStatus(tx, models.ItemStatusCooking, []uint{item.ID})
	}))
	assert.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return services.UpdateItemStatus(tx, models.ItemStatusFired, []uint{item.ID})
	}))

	assert.Equal(t, firstStamp.Unix(), loadItem(t, db, item.ID).FiredAt.Unix())
}

func TestUpdateItemStatusLeavesFiredAtForOtherStatuses(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	item := f.newItem(t, db, f.newOrder(t, db), 1, nil)

	assert.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return services.UpdateItemStatus(tx, models.ItemStatusReady, []uint{item.ID})
	}))

	got := loadItem(t, db, item.ID)
	assert.Equal(t, models.ItemStatusReady, got.Status)
	assert.Nil(t, got.FiredAt)
}

func TestUpdateItemStatusUnknownIDAbortsBatch(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	item := f.newItem(t, db, f.newOrder(t, db), 1, nil)

	err := db.Transaction(func(tx *gorm.DB) error {
		return services.UpdateItemStatus(tx, models.ItemStatusFired, []uint{item.ID, 99999})
	})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Rolled back: the valid item kept its status.
	got := loadItem(t, db, item.ID)
	assert.Equal(t, models.ItemStatusPending, got.Status)
	assert.Nil(t, got.FiredAt)
}

func TestUpdateItemStatusRejectsUnknownStatus(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	item := f.newItem(t, db, f.newOrder(t, db), 1, nil)

	err := db.Transaction(func(tx *gorm.DB) error {
		return services.UpdateItemStatus(tx, "microwaved", []uint{item.ID})
	})
	assert.ErrorIs(t, err, services.ErrUnknownStatus)
}

package cart

import (
	"sync"
	"testing"

	"github.com/Narutostha/ww/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(productID uuid.UUID, size, color string, qty int, price string) domain.CartLine {
	return domain.CartLine{
		ProductID: productID,
		Name:      "Oversized Tee",
		UnitPrice: decimal.RequireFromString(price),
		Quantity:  qty,
		Size:      size,
		Color:     color,
	}
}

func TestStore_AddItem_MergesSameSelection(t *testing.T) {
	store := NewStore()
	productID := uuid.New()

	store.AddItem("session-1", line(productID, "M", "black", 2, "1500"))
	store.AddItem("session-1", line(productID, "M", "black", 3, "1500"))

	snapshot := store.Snapshot("session-1")
	require.Len(t, snapshot.Lines, 1)
	assert.Equal(t, 5, snapshot.Lines[0].Quantity)
	assert.True(t, snapshot.Subtotal.Equal(decimal.RequireFromString("7500")))
}

func TestStore_AddItem_DifferentSizeIsSeparateLine(t *testing.T) {
	store := NewStore()
	productID := uuid.New()

	store.AddItem("session-1", line(productID, "M", "black", 1, "1500"))
	store.AddItem("session-1", line(productID, "L", "black", 1, "1500"))
	store.AddItem("session-1", line(productID, "M", "white", 1, "1500"))

	snapshot := store.Snapshot("session-1")
	assert.Len(t, snapshot.Lines, 3)
}

func TestStore_AddItem_NonPositiveQuantityCountsAsOne(t *testing.T) {
	store := NewStore()

	store.AddItem("session-1", line(uuid.New(), "M", "black", 0, "900"))

	snapshot := store.Snapshot("session-1")
	require.Len(t, snapshot.Lines, 1)
	assert.Equal(t, 1, snapshot.Lines[0].Quantity)
}

func TestStore_AddItem_PreservesInsertionOrder(t *testing.T) {
	store := NewStore()
	first := uuid.New()
	second := uuid.New()

	store.AddItem("session-1", line(first, "M", "black", 1, "1000"))
	store.AddItem("session-1", line(second, "M", "black", 1, "2000"))
	// Merging into the first line must not move it.
	store.AddItem("session-1", line(first, "M", "black", 1, "1000"))

	snapshot := store.Snapshot("session-1")
	require.Len(t, snapshot.Lines, 2)
	assert.Equal(t, first, snapshot.Lines[0].ProductID)
	assert.Equal(t, second, snapshot.Lines[1].ProductID)
}

func TestStore_ReduceQuantity_DecrementsByOne(t *testing.T) {
	store := NewStore()
	l := line(uuid.New(), "M", "black", 3, "1000")

	store.AddItem("session-1", l)
	store.ReduceQuantity("session-1", l.LineID())

	snapshot := store.Snapshot("session-1")
	require.Len(t, snapshot.Lines, 1)
	assert.Equal(t, 2, snapshot.Lines[0].Quantity)
}

func TestStore_ReduceQuantity_RemovesLineAtZero(t *testing.T) {
	store := NewStore()
	l := line(uuid.New(), "M", "black", 1, "1000")

	store.AddItem("session-1", l)
	store.ReduceQuantity("session-1", l.LineID())

	assert.True(t, store.Snapshot("session-1").Empty())
}

func TestStore_ReduceQuantity_AbsentLineIsNoOp(t *testing.T) {
	store := NewStore()
	store.AddItem("session-1", line(uuid.New(), "M", "black", 2, "1000"))

	store.ReduceQuantity("session-1", "nonexistent|M|black")

	snapshot := store.Snapshot("session-1")
	require.Len(t, snapshot.Lines, 1)
	assert.Equal(t, 2, snapshot.Lines[0].Quantity)
}

func TestStore_RemoveItem_DropsWholeLine(t *testing.T) {
	store := NewStore()
	keep := line(uuid.New(), "M", "black", 2, "1000")
	drop := line(uuid.New(), "L", "white", 5, "2000")

	store.AddItem("session-1", keep)
	store.AddItem("session-1", drop)
	store.RemoveItem("session-1", drop.LineID())

	snapshot := store.Snapshot("session-1")
	require.Len(t, snapshot.Lines, 1)
	assert.Equal(t, keep.LineID(), snapshot.Lines[0].LineID())
	assert.True(t, snapshot.Subtotal.Equal(decimal.RequireFromString("2000")))
}

func TestStore_Clear_EmptiesSession(t *testing.T) {
	store := NewStore()
	store.AddItem("session-1", line(uuid.New(), "M", "black", 2, "1000"))
	store.AddItem("session-2", line(uuid.New(), "M", "black", 1, "500"))

	store.Clear("session-1")

	assert.True(t, store.Snapshot("session-1").Empty())
	// Other sessions are untouched.
	assert.Len(t, store.Snapshot("session-2").Lines, 1)
}

func TestStore_Snapshot_IsACopy(t *testing.T) {
	store := NewStore()
	l := line(uuid.New(), "M", "black", 1, "1000")
	store.AddItem("session-1", l)

	snapshot := store.Snapshot("session-1")
	snapshot.Lines[0].Quantity = 99

	assert.Equal(t, 1, store.Snapshot("session-1").Lines[0].Quantity)
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	store := NewStore()
	productID := uuid.New()

	store.AddItem("session-a", line(productID, "M", "black", 1, "1000"))
	store.AddItem("session-b", line(productID, "M", "black", 4, "1000"))

	assert.Equal(t, 1, store.Snapshot("session-a").Lines[0].Quantity)
	assert.Equal(t, 4, store.Snapshot("session-b").Lines[0].Quantity)
}

func TestStore_ConcurrentAdds(t *testing.T) {
	store := NewStore()
	productID := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.AddItem("session-1", line(productID, "M", "black", 1, "1000"))
		}()
	}
	wg.Wait()

	snapshot := store.Snapshot("session-1")
	require.Len(t, snapshot.Lines, 1)
	assert.Equal(t, 50, snapshot.Lines[0].Quantity)
}

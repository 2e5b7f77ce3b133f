package indexes_test

import (
	"testing"

	"github.com/suvana/suvana/internal/app/system/indexes"
	"github.com/suvana/suvana/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// First call
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}

	// Second call should also succeed (idempotent)
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	want := map[string][]string{
		"pools":       {"idx_pools_created_desc", "idx_pools_status_next_payout"},
		"memberships": {"uniq_memberships_address", "idx_memberships_pool"},
	}
	for coll, names := range want {
		cur, err := db.Collection(coll).Indexes().List(ctx)
		if err != nil {
			t.Fatalf("List indexes on %s failed: %v", coll, err)
		}
		found := make(map[string]bool)
		for cur.Next(ctx) {
			var idx bson.M
			if err := cur.Decode(&idx); err != nil {
				t.Fatalf("decode index: %v", err)
			}
			if name, ok := idx["name"].(string); ok {
				found[name] = true
			}
		}
		cur.Close(ctx)

		for _, name := range names {
			if !found[name] {
				t.Errorf("expected index %s on %s", name, coll)
			}
		}
	}
}

func TestEnsureAll_UniqueAddress(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	coll := db.Collection("memberships")
	if _, err := coll.InsertOne(ctx, bson.M{"_id": "a", "address": "0xabc", "pool_id": "p1", "position": 1}); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if _, err := coll.InsertOne(ctx, bson.M{"_id": "b", "address": "0xabc", "pool_id": "p2", "position": 1}); err == nil {
		t.Error("expected duplicate address to be rejected")
	}
}

package updates_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fieldwise/fieldwise/schema"
	"github.com/fieldwise/fieldwise/testutil"
	"github.com/fieldwise/fieldwise/updates"
)

func TestOperatorGrouping(t *testing.T) {
	product := testutil.NewProduct(t)

	// Interleaved calls still produce one key per operator, in first-use
	// order, with entries grouped under it.
	got := updates.New(product.Record).
		Set(product.Name, "widget").
		Inc(product.Price, 2.5).
		Set(product.ID, "p-1").
		Build()

	want := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "name", Value: "widget"},
			{Key: "id", Value: "p-1"},
		}},
		{Key: "$inc", Value: bson.D{
			{Key: "price", Value: 2.5},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestLastWriteWins(t *testing.T) {
	product := testutil.NewProduct(t)

	got := updates.New(product.Record).
		Set(product.Name, "widget").
		Set(product.ID, "p-1").
		Set(product.Name, "gadget").
		Build()

	want := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "name", Value: "gadget"},
			{Key: "id", Value: "p-1"},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestScalarOperators(t *testing.T) {
	user := testutil.NewUser(t)
	product := testutil.NewProduct(t)

	tests := []struct {
		name  string
		build func() bson.D
		want  bson.D
	}{
		{
			name:  "unset writes null",
			build: func() bson.D { return updates.New(user.Record).Unset(user.WorkAddress).Build() },
			want: bson.D{{Key: "$unset", Value: bson.D{
				{Key: "work_address", Value: primitive.Null{}},
			}}},
		},
		{
			name:  "max",
			build: func() bson.D { return updates.New(user.Record).Max(user.Score, 100.0).Build() },
			want:  bson.D{{Key: "$max", Value: bson.D{{Key: "score", Value: 100.0}}}},
		},
		{
			name:  "min with widening",
			build: func() bson.D { return updates.New(user.Record).Min(user.Score, int32(0)).Build() },
			want:  bson.D{{Key: "$min", Value: bson.D{{Key: "score", Value: int32(0)}}}},
		},
		{
			name:  "mul",
			build: func() bson.D { return updates.New(product.Record).Mul(product.Price, 1.1).Build() },
			want:  bson.D{{Key: "$mul", Value: bson.D{{Key: "price", Value: 1.1}}}},
		},
		{
			name:  "rename",
			build: func() bson.D { return updates.New(user.Record).Rename(user.Name, "full_name").Build() },
			want:  bson.D{{Key: "$rename", Value: bson.D{{Key: "name", Value: "full_name"}}}},
		},
		{
			name:  "current date",
			build: func() bson.D { return updates.New(user.Record).CurrentDate(user.CreatedAt, updates.DateStamp).Build() },
			want:  bson.D{{Key: "$currentDate", Value: bson.D{{Key: "created_at", Value: "date"}}}},
		},
		{
			name: "current timestamp",
			build: func() bson.D {
				return updates.New(user.Record).CurrentDate(user.CreatedAt, updates.TimestampStamp).Build()
			},
			want: bson.D{{Key: "$currentDate", Value: bson.D{{Key: "created_at", Value: "timestamp"}}}},
		},
		{
			name:  "untyped escape hatch",
			build: func() bson.D { return updates.New(user.Record).Untyped(user.Score, updates.OpInc, "NaN").Build() },
			want:  bson.D{{Key: "$inc", Value: bson.D{{Key: "score", Value: "NaN"}}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.build()); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestArrayOperators(t *testing.T) {
	product := testutil.NewProduct(t)

	tests := []struct {
		name  string
		build func() bson.D
		want  bson.D
	}{
		{
			name:  "add to set",
			build: func() bson.D { return updates.New(product.Record).AddToSet(product.Categories, "tools").Build() },
			want:  bson.D{{Key: "$addToSet", Value: bson.D{{Key: "categories", Value: "tools"}}}},
		},
		{
			name: "add to set each",
			build: func() bson.D {
				return updates.New(product.Record).AddToSetEach(product.Categories, "tools", "home").Build()
			},
			want: bson.D{{Key: "$addToSet", Value: bson.D{
				{Key: "categories", Value: bson.D{{Key: "$each", Value: bson.A{"tools", "home"}}}},
			}}},
		},
		{
			name:  "pop first",
			build: func() bson.D { return updates.New(product.Record).Pop(product.Categories, updates.PopFirst).Build() },
			want:  bson.D{{Key: "$pop", Value: bson.D{{Key: "categories", Value: -1}}}},
		},
		{
			name:  "pop last",
			build: func() bson.D { return updates.New(product.Record).Pop(product.Categories, updates.PopLast).Build() },
			want:  bson.D{{Key: "$pop", Value: bson.D{{Key: "categories", Value: 1}}}},
		},
		{
			name:  "pull",
			build: func() bson.D { return updates.New(product.Record).Pull(product.Categories, "discontinued").Build() },
			want:  bson.D{{Key: "$pull", Value: bson.D{{Key: "categories", Value: "discontinued"}}}},
		},
		{
			name: "pull with condition",
			build: func() bson.D {
				return updates.New(product.Record).
					PullExpr(product.Categories, bson.D{{Key: "$in", Value: bson.A{"a", "b"}}}).
					Build()
			},
			want: bson.D{{Key: "$pull", Value: bson.D{
				{Key: "categories", Value: bson.D{{Key: "$in", Value: bson.A{"a", "b"}}}},
			}}},
		},
		{
			name:  "pull all",
			build: func() bson.D { return updates.New(product.Record).PullAll(product.Categories, "a", "b").Build() },
			want:  bson.D{{Key: "$pullAll", Value: bson.D{{Key: "categories", Value: bson.A{"a", "b"}}}}},
		},
		{
			name:  "push",
			build: func() bson.D { return updates.New(product.Record).Push(product.Categories, "new").Build() },
			want:  bson.D{{Key: "$push", Value: bson.D{{Key: "categories", Value: "new"}}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.build()); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestPushEachModifiers(t *testing.T) {
	product := testutil.NewProduct(t)

	tests := []struct {
		name string
		spec updates.PushEach
		want bson.D
	}{
		{
			name: "values only",
			spec: updates.PushEach{Values: []any{"a", "b"}},
			want: bson.D{{Key: "$each", Value: bson.A{"a", "b"}}},
		},
		{
			name: "slice first",
			spec: updates.PushEach{Values: []any{"a"}, Slice: updates.SliceFirst(3)},
			want: bson.D{
				{Key: "$each", Value: bson.A{"a"}},
				{Key: "$slice", Value: 3},
			},
		},
		{
			name: "slice last is negative",
			spec: updates.PushEach{Values: []any{"a"}, Slice: updates.SliceLast(3)},
			want: bson.D{
				{Key: "$each", Value: bson.A{"a"}},
				{Key: "$slice", Value: -3},
			},
		},
		{
			name: "slice none keeps nothing",
			spec: updates.PushEach{Values: []any{"a"}, Slice: updates.SliceNone()},
			want: bson.D{
				{Key: "$each", Value: bson.A{"a"}},
				{Key: "$slice", Value: 0},
			},
		},
		{
			name: "all modifiers in fixed order",
			spec: updates.PushEach{
				Values:   []any{"a"},
				Slice:    updates.SliceFirst(5),
				Sort:     updates.SortDescending(),
				Position: updates.PositionBack(2),
			},
			want: bson.D{
				{Key: "$each", Value: bson.A{"a"}},
				{Key: "$slice", Value: 5},
				{Key: "$sort", Value: -1},
				{Key: "$position", Value: -2},
			},
		},
		{
			name: "sort by document",
			spec: updates.PushEach{
				Values: []any{"a"},
				Sort:   updates.SortBy(bson.D{{Key: "rank", Value: 1}}),
			},
			want: bson.D{
				{Key: "$each", Value: bson.A{"a"}},
				{Key: "$sort", Value: bson.D{{Key: "rank", Value: 1}}},
			},
		},
		{
			name: "position front",
			spec: updates.PushEach{Values: []any{"a"}, Position: updates.PositionFront(1)},
			want: bson.D{
				{Key: "$each", Value: bson.A{"a"}},
				{Key: "$position", Value: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := updates.New(product.Record).PushEach(product.Categories, tt.spec).Build()
			want := bson.D{{Key: "$push", Value: bson.D{{Key: "categories", Value: tt.want}}}}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestUpdateLookup(t *testing.T) {
	user := testutil.NewUser(t)

	got := updates.New(user.Record).
		Set(user.Name, "alice").
		WithLookup(user.HomeAddress,
			func(p schema.Path) schema.Path { return p.Field(user.Address.City) },
			func(nested *updates.Builder) {
				nested.Set(user.Address.City, "Lisbon").
					Unset(user.Address.Country)
			}).
		Build()

	want := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "name", Value: "alice"},
			{Key: "home_address.city", Value: "Lisbon"},
		}},
		{Key: "$unset", Value: bson.D{
			{Key: "home_address.country", Value: primitive.Null{}},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestBuildIsTerminal(t *testing.T) {
	product := testutil.NewProduct(t)

	b := updates.New(product.Record).Set(product.Name, "widget")
	first := b.Build()
	second := b.Build()

	if len(first) != 1 {
		t.Fatalf("first Build() = %v, want one $set group", first)
	}
	if len(second) != 0 {
		t.Errorf("second Build() = %v, want an empty document", second)
	}
}

func TestUpdateMisusePanics(t *testing.T) {
	user := testutil.NewUser(t)
	product := testutil.NewProduct(t)

	t.Run("token of another record", func(t *testing.T) {
		b := updates.New(user.Record)
		testutil.ExpectMismatch(t, func() { b.Set(product.Name, "widget") })
		if len(b.Build()) != 0 {
			t.Error("no entry may be recorded after a rejection")
		}
	})

	t.Run("value the oracle rejects", func(t *testing.T) {
		b := updates.New(user.Record)
		testutil.ExpectMismatch(t, func() { b.Set(user.Age, "thirty") })
	})

	t.Run("push to a scalar field", func(t *testing.T) {
		b := updates.New(user.Record)
		me := testutil.ExpectMismatch(t, func() { b.Push(user.Name, "x") })
		if me.Expected != "a container field" {
			t.Errorf("unexpected expectation %q", me.Expected)
		}
	})

	t.Run("element of the wrong type", func(t *testing.T) {
		b := updates.New(product.Record)
		testutil.ExpectMismatch(t, func() { b.AddToSet(product.Categories, int64(1)) })
	})
}

package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock implementations ---

// fakeRows implements pgx.Rows over an in-memory slice of rows.
type fakeRows struct {
	rows [][]any
	pos  int
	err  error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return r.rows[r.pos-1], nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.pos-1]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: got %d dest, row has %d", len(dest), len(row))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = row[i].(string)
		case *[]byte:
			*p = row[i].([]byte)
		default:
			return fmt.Errorf("scan: unsupported dest %T", d)
		}
	}
	return nil
}

type fakeQuerier struct {
	rows *fakeRows
	err  error
}

func (q *fakeQuerier) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
	if q.err != nil {
		return nil, q.err
	}
	return q.rows, nil
}

type execCall struct {
	args []any
}

type fakeExecer struct {
	calls  []execCall
	failAt int
}

func (e *fakeExecer) Exec(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
	if e.failAt > 0 && len(e.calls)+1 == e.failAt {
		return pgconn.CommandTag{}, errors.New("connection reset")
	}
	e.calls = append(e.calls, execCall{args: args})
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

// --- Tests ---

func TestLoadPostgres(t *testing.T) {
	q := &fakeQuerier{rows: &fakeRows{rows: [][]any{
		{"cookie-mix", "Cookie Box", "", "$3", "", "", "cookies", "cookie_mix", "3.00",
			[]byte(`{"sizes":[{"name":"Half Dozen","price":"16","units":6}],"sub_items":[{"name":"Chocolate Chip"}]}`)},
		{"loaf", "Loaf", "", "$9", "", "", "breads", "plain", "9.00", []byte(`{}`)},
	}}}

	c, err := LoadPostgres(context.Background(), q)
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())

	mix, err := c.Product("cookie-mix")
	require.NoError(t, err)
	require.Len(t, mix.PackTiers(), 1)
	assert.True(t, mix.PackTiers()[0].Price.Equal(decimal.NewFromInt(16)))
	assert.Equal(t, "Chocolate Chip", mix.SubItems[0].Name)
}

func TestLoadPostgres_QueryError(t *testing.T) {
	q := &fakeQuerier{err: errors.New("no connection")}
	_, err := LoadPostgres(context.Background(), q)
	assert.Error(t, err)
}

func TestLoadPostgres_BadOptions(t *testing.T) {
	q := &fakeQuerier{rows: &fakeRows{rows: [][]any{
		{"loaf", "Loaf", "", "", "", "", "breads", "plain", "9.00", []byte(`{not json`)},
	}}}
	_, err := LoadPostgres(context.Background(), q)
	assert.True(t, errors.Is(err, ErrInvalidProduct))
}

func TestPublish(t *testing.T) {
	c, err := LoadEmbedded()
	require.NoError(t, err)

	e := &fakeExecer{}
	n, err := Publish(context.Background(), e, c)
	require.NoError(t, err)
	assert.Equal(t, c.Len(), n)
	require.Len(t, e.calls, c.Len())

	first := e.calls[0].args
	assert.Equal(t, c.Products()[0].ID, first[0])
	assert.Equal(t, 0, first[1])
}

func TestPublish_StopsOnError(t *testing.T) {
	c, err := LoadEmbedded()
	require.NoError(t, err)

	e := &fakeExecer{failAt: 2}
	n, err := Publish(context.Background(), e, c)
	assert.Error(t, err)
	assert.Equal(t, 1, n)
}

func TestPublishThenLoadRoundTrip(t *testing.T) {
	c, err := LoadEmbedded()
	require.NoError(t, err)

	e := &fakeExecer{}
	_, err = Publish(context.Background(), e, c)
	require.NoError(t, err)

	// Feed the upserted values back as rows in SELECT column order.
	var rows [][]any
	for _, call := range e.calls {
		a := call.args
		rows = append(rows, []any{a[0], a[2], a[3], a[4], a[5], a[6], a[7], a[8], a[9], a[10]})
	}
	loaded, err := LoadPostgres(context.Background(), &fakeQuerier{rows: &fakeRows{rows: rows}})
	require.NoError(t, err)

	want := c.Products()
	got := loaded.Products()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.True(t, want[i].BasePrice.Equal(got[i].BasePrice), want[i].ID)
		assert.Equal(t, len(want[i].Sizes), len(got[i].Sizes), want[i].ID)
		assert.Equal(t, len(want[i].Flavors), len(got[i].Flavors), want[i].ID)
		assert.Equal(t, len(want[i].SubItems), len(got[i].SubItems), want[i].ID)
	}
}

func TestOpen_Sources(t *testing.T) {
	c, err := Open(context.Background(), "embedded", "")
	require.NoError(t, err)
	assert.Equal(t, 8, c.Len())

	_, err = Open(context.Background(), "s3", "")
	assert.Error(t, err)
}

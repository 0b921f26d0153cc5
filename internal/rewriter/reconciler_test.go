package rewriter_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/buglloc/adguard-rewriter/internal/rewriter"
)

type fakeStore struct {
	rules   []rewriter.Rule
	listErr error
	addErr  map[string]error
	delErr  map[string]error
	calls   []string
}

func (s *fakeStore) List(_ context.Context) ([]rewriter.Rule, error) {
	s.calls = append(s.calls, "list")
	if s.listErr != nil {
		return nil, s.listErr
	}

	out := make([]rewriter.Rule, len(s.rules))
	copy(out, s.rules)
	return out, nil
}

func (s *fakeStore) Add(_ context.Context, r rewriter.Rule) error {
	s.calls = append(s.calls, "add "+r.Domain+" "+r.Answer)
	if err := s.addErr[r.Domain]; err != nil {
		return err
	}

	s.rules = append(s.rules, r)
	return nil
}

func (s *fakeStore) Delete(_ context.Context, domain string) error {
	s.calls = append(s.calls, "delete "+domain)
	if err := s.delErr[domain]; err != nil {
		return err
	}

	for i, r := range s.rules {
		if r.Domain == domain {
			s.rules = append(s.rules[:i], s.rules[i+1:]...)
			break
		}
	}
	return nil
}

func TestReconcileCreatesMissing(t *testing.T) {
	store := &fakeStore{}

	out, err := rewriter.NewReconciler(store).
		Reconcile(context.Background(), []string{"a.local", "b.local"}, "192.168.1.42")
	require.NoError(t, err)
	require.True(t, out.Full())
	require.Equal(t, 2, out.Succeeded())
	require.EqualValues(t, []string{
		"list",
		"add a.local 192.168.1.42",
		"add b.local 192.168.1.42",
	}, store.calls)
}

func TestReconcileIdempotent(t *testing.T) {
	store := &fakeStore{}
	r := rewriter.NewReconciler(store)
	hostnames := []string{"a.local", "b.local"}

	out, err := r.Reconcile(context.Background(), hostnames, "192.168.1.42")
	require.NoError(t, err)
	require.True(t, out.Full())

	store.calls = nil
	out, err = r.Reconcile(context.Background(), hostnames, "192.168.1.42")
	require.NoError(t, err)
	require.True(t, out.Full())
	// second run with an unchanged target makes zero mutations
	require.EqualValues(t, []string{"list"}, store.calls)
}

func TestReconcileChangedAnswer(t *testing.T) {
	store := &fakeStore{
		rules: []rewriter.Rule{
			{Domain: "a.local", Answer: "10.0.0.1"},
		},
	}

	out, err := rewriter.NewReconciler(store).
		Reconcile(context.Background(), []string{"a.local"}, "192.168.1.42")
	require.NoError(t, err)
	require.True(t, out.Full())
	require.EqualValues(t, []string{
		"list",
		"delete a.local",
		"add a.local 192.168.1.42",
	}, store.calls)
}

func TestReconcileDeleteFailureSkipsAdd(t *testing.T) {
	store := &fakeStore{
		rules: []rewriter.Rule{
			{Domain: "a.local", Answer: "10.0.0.1"},
		},
		delErr: map[string]error{
			"a.local": errors.New("boom"),
		},
	}

	out, err := rewriter.NewReconciler(store).
		Reconcile(context.Background(), []string{"a.local", "b.local"}, "192.168.1.42")
	require.NoError(t, err)
	require.False(t, out.Full())
	require.True(t, out.OK())
	require.EqualValues(t, []string{
		"list",
		"delete a.local",
		"add b.local 192.168.1.42",
	}, store.calls)
	require.Error(t, out.Hosts[0].Err)
	require.NoError(t, out.Hosts[1].Err)
}

func TestReconcilePartialSuccess(t *testing.T) {
	store := &fakeStore{}

	out, err := rewriter.NewReconciler(store).
		Reconcile(context.Background(), []string{"a.local", "not valid!", "b.local"}, "192.168.1.42")
	require.NoError(t, err)
	require.Equal(t, 2, out.Succeeded())
	require.Equal(t, 3, out.Total())
	require.True(t, out.OK())
	require.False(t, out.Full())
	// the invalid hostname never reaches the store
	require.EqualValues(t, []string{
		"list",
		"add a.local 192.168.1.42",
		"add b.local 192.168.1.42",
	}, store.calls)
}

func TestReconcileAllFailed(t *testing.T) {
	store := &fakeStore{
		addErr: map[string]error{
			"a.local": errors.New("boom"),
		},
	}

	out, err := rewriter.NewReconciler(store).
		Reconcile(context.Background(), []string{"a.local", "bad name"}, "192.168.1.42")
	require.NoError(t, err)
	require.Equal(t, 0, out.Succeeded())
	require.False(t, out.OK())
}

func TestReconcileListFailureAborts(t *testing.T) {
	store := &fakeStore{
		listErr: errors.New("unreachable"),
	}

	out, err := rewriter.NewReconciler(store).
		Reconcile(context.Background(), []string{"a.local"}, "192.168.1.42")
	require.Error(t, err)
	require.Nil(t, out)
	require.EqualValues(t, []string{"list"}, store.calls)
}

func TestReconcileNoHostnames(t *testing.T) {
	store := &fakeStore{}

	_, err := rewriter.NewReconciler(store).
		Reconcile(context.Background(), nil, "192.168.1.42")
	require.ErrorIs(t, err, rewriter.ErrNoHostnames)
	require.Empty(t, store.calls)
}

func TestReconcileUsesSingleSnapshot(t *testing.T) {
	// A duplicated hostname shows the snapshot is not refreshed mid-run:
	// the second occurrence still sees "missing" and issues another add.
	store := &fakeStore{}

	out, err := rewriter.NewReconciler(store).
		Reconcile(context.Background(), []string{"a.local", "a.local"}, "192.168.1.42")
	require.NoError(t, err)
	require.True(t, out.Full())
	require.EqualValues(t, []string{
		"list",
		"add a.local 192.168.1.42",
		"add a.local 192.168.1.42",
	}, store.calls)
}

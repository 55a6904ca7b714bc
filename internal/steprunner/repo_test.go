package steprunner

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/knowledgehooks/khook/internal/domain/hook"
	"github.com/stretchr/testify/require"
)

func initRepoWithCommit(t *testing.T, dir string) string {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("hi"), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("README.md")
	require.NoError(t, err)

	hash, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Unix(0, 0)},
	})
	require.NoError(t, err)
	return hash.String()
}

func TestRunRepoStepHeadCommit(t *testing.T) {
	dir := t.TempDir()
	want := initRepoWithCommit(t, dir)

	step := hook.Step{
		ID:   "s1",
		Kind: hook.StepRepo,
		Repo: &hook.RepoStep{Path: dir, Operation: hook.RepoOpHeadCommit},
	}
	ectx := hook.NewExecutionContext(time.Now())
	res, err := Run(context.Background(), Deps{}, ectx, step, 0)
	require.NoError(t, err)
	require.True(t, res.Success)

	got, ok := res.Data.(repoResult)
	require.True(t, ok)
	require.Equal(t, want, got.HeadCommit)
}

func TestRunRepoStepStatusClean(t *testing.T) {
	dir := t.TempDir()
	initRepoWithCommit(t, dir)

	step := hook.Step{
		ID:   "s1",
		Kind: hook.StepRepo,
		Repo: &hook.RepoStep{Path: dir, Operation: hook.RepoOpStatus},
	}
	ectx := hook.NewExecutionContext(time.Now())
	res, err := Run(context.Background(), Deps{}, ectx, step, 0)
	require.NoError(t, err)
	require.True(t, res.Success)

	got, ok := res.Data.(repoResult)
	require.True(t, ok)
	require.True(t, got.Clean)
}

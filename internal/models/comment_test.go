package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v uint) *uint { return &v }

func TestBuildThreads(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	comments := []*Comment{
		{ID: 1, PostID: 7, Content: "first", CreatedAt: base},
		{ID: 2, PostID: 7, Parent: ptr(1), Content: "reply to first", CreatedAt: base.Add(time.Minute)},
		{ID: 3, PostID: 7, Content: "second", CreatedAt: base.Add(2 * time.Minute)},
		{ID: 4, PostID: 7, Parent: ptr(1), Content: "another reply to first", CreatedAt: base.Add(3 * time.Minute)},
		{ID: 5, PostID: 7, Parent: ptr(3), Content: "reply to second", CreatedAt: base.Add(4 * time.Minute)},
	}

	threads := BuildThreads(comments)
	require.Len(t, threads, 2)

	assert.Equal(t, uint(1), threads[0].Comment.ID)
	require.Len(t, threads[0].Replies, 2)
	assert.Equal(t, uint(2), threads[0].Replies[0].ID)
	assert.Equal(t, uint(4), threads[0].Replies[1].ID)

	assert.Equal(t, uint(3), threads[1].Comment.ID)
	require.Len(t, threads[1].Replies, 1)
	assert.Equal(t, uint(5), threads[1].Replies[0].ID)
}

func TestBuildThreads_RootNeverInsideReplies(t *testing.T) {
	comments := []*Comment{
		{ID: 1, Content: "root a"},
		{ID: 2, Content: "root b"},
		{ID: 3, Parent: ptr(2), Content: "reply"},
	}

	threads := BuildThreads(comments)
	require.Len(t, threads, 2)
	for _, thread := range threads {
		assert.True(t, thread.Comment.IsRoot())
		for _, reply := range thread.Replies {
			assert.False(t, reply.IsRoot())
			assert.Equal(t, thread.Comment.ID, *reply.Parent)
		}
	}
}

func TestBuildThreads_OrphanReplyDropped(t *testing.T) {
	comments := []*Comment{
		{ID: 1, Content: "root"},
		{ID: 2, Parent: ptr(99), Content: "orphan"},
	}

	threads := BuildThreads(comments)
	require.Len(t, threads, 1)
	assert.Empty(t, threads[0].Replies)
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		got, ok := ParseCategory(string(c))
		assert.True(t, ok)
		assert.Equal(t, c, got)
	}

	for _, invalid := range []string{"", "all", "music", "PORTFOLIO"} {
		_, ok := ParseCategory(invalid)
		assert.False(t, ok, "expected %q to be rejected", invalid)
	}
}

func TestParseSort(t *testing.T) {
	assert.Equal(t, SortPopular, ParseSort("popular"))
	assert.Equal(t, SortLatest, ParseSort("latest"))
	assert.Equal(t, SortLatest, ParseSort(""))
	assert.Equal(t, SortLatest, ParseSort("bogus"))
}

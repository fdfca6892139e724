package server

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/dashwise-cli/internal/suggest"
)

func TestSessionStoreExpiresIdleSessions(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	st := NewSessionStore(30*time.Minute, func() time.Time { return now })

	a := st.Create()
	b := st.Create()
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, st.Len())

	now = now.Add(20 * time.Minute)
	_, ok := st.Get(a.ID)
	require.True(t, ok)

	now = now.Add(20 * time.Minute)
	_, ok = st.Get(a.ID)
	assert.True(t, ok, "touched 20 minutes ago")
	_, ok = st.Get(b.ID)
	assert.False(t, ok, "idle for 40 minutes")
	assert.Equal(t, 1, st.Len())
}

func TestSessionStoreHandsOutCopies(t *testing.T) {
	st := NewSessionStore(0, nil)
	s := st.Create()
	s.Payload = []byte("x")
	s.FileName = "a.csv"

	got, ok := st.Get(s.ID)
	require.True(t, ok)
	assert.False(t, got.HasData())

	st.Update(s.ID, func(cur *Session) {
		cur.Payload = s.Payload
		cur.FileName = s.FileName
	})
	got, _ = st.Get(s.ID)
	assert.True(t, got.HasData())
	assert.Equal(t, "a.csv", got.FileName)

	_, ok = st.Update("missing", func(*Session) { t.Fatal("called for unknown id") })
	assert.False(t, ok)
}

func TestSessionUpdateKeepsOverlappingChanges(t *testing.T) {
	st := NewSessionStore(0, nil)
	id := st.Create().ID

	// A render that started before the upload only writes its own fields.
	stale, _ := st.Get(id)
	st.Update(id, func(cur *Session) {
		cur.Payload = []byte("new workbook")
		cur.FileName = "new.csv"
	})
	st.Update(stale.ID, func(cur *Session) {
		cur.Rotation = suggest.Rotation{Current: 2, Previous: 1}
		cur.HasRotation = true
	})

	got, ok := st.Get(id)
	require.True(t, ok)
	assert.Equal(t, "new.csv", got.FileName)
	assert.Equal(t, []byte("new workbook"), got.Payload)
	assert.Equal(t, 2, got.Rotation.Current)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			st.Update(id, func(cur *Session) { cur.Rotation.Current++ })
		}()
		go func() {
			defer wg.Done()
			st.Update(id, func(cur *Session) { cur.Flash = "" })
		}()
	}
	wg.Wait()
	got, _ = st.Get(id)
	assert.Equal(t, 52, got.Rotation.Current)
	assert.Equal(t, "new.csv", got.FileName)
}

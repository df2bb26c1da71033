package sqlclient

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/flatdb/internal/engine"
	"github.com/tuannm99/flatdb/internal/record"
	"github.com/tuannm99/flatdb/server/flatwire"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	db, err := engine.Open(afero.NewMemMapFs(), "main", "/data")
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = flatwire.Serve(ctx, ln, db, false)
	}()

	c, err := Dial(ln.Addr().String(), time.Second)
	require.NoError(t, err)
	c.SetRWTimeout(5 * time.Second)

	t.Cleanup(func() {
		_ = c.Close()
		cancel()
		<-done
	})
	return c
}

func TestClient_Exec(t *testing.T) {
	c := newTestClient(t)

	_, err := c.Exec("pets (id Int) (kind Str) create")
	require.NoError(t, err)

	res, err := c.Exec(`1 cat insert`)
	require.NoError(t, err)
	require.Equal(t, 1, res.Affected)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	res, err = c.ExecContext(ctx, `kind pets select kind cat == filter`)
	require.NoError(t, err)
	require.Equal(t, []record.Row{{record.TextValue("cat")}}, res.Table.Rows)

	res, err = c.Exec("7")
	require.NoError(t, err)
	require.Equal(t, []string{"1 unused words in the stack"}, res.Warnings)
}

func TestClient_ServerError(t *testing.T) {
	c := newTestClient(t)

	_, err := c.Exec("ghost drop")
	var se *ServerError
	require.True(t, errors.As(err, &se))
	require.Contains(t, se.Msg, "unknown table")
}

func TestClient_ConcurrentExec(t *testing.T) {
	c := newTestClient(t)
	_, err := c.Exec("n (v Int) create")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Exec("1 insert")
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	res, err := c.Exec("v select")
	require.NoError(t, err)
	require.Len(t, res.Table.Rows, 10)
}

func TestClient_Nil(t *testing.T) {
	var c *Client
	_, err := c.Exec("x")
	require.ErrorIs(t, err, ErrNilClient)
	require.NoError(t, c.Close())
}

package tectonic

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPCListenerForwardsLinesToEngine(t *testing.T) {
	log := NewCapturingLogger()
	e := NewEngine(Collaborators{}, log)

	l, err := ListenIPC("127.0.0.1:0", e)
	require.NoError(t, err)
	defer l.Close()

	conn, err := net.Dial("tcp", l.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("echo from-ipc\n"))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		select {
		case line := <-e.ipcQueue:
			e.Commands.Execute(e, tokenize(line))
			return true
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)

	require.NotEmpty(t, log.Lines)
	assert.Equal(t, "from-ipc", log.Lines[len(log.Lines)-1])
}

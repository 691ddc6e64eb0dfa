package tcp

import (
	"bufio"
	"net"
	"sync"
	"testing"
)

func TestWritePayloadAppendsNewline(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	c := newConn(server)
	go func() {
		if err := c.WritePayload([]byte(`{"code":200}`)); err != nil {
			t.Errorf("write payload: %v", err)
		}
	}()

	reader := bufio.NewReader(client)
	line, err := reader.ReadString('\n')
	if err != nil {
		t.Fatalf("read line: %v", err)
	}
	if line != `{"code":200}`+"\n" {
		t.Fatalf("unexpected frame: %q", line)
	}
}

func TestWritePayloadSerializesConcurrentWrites(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	c := newConn(server)
	const writers = 20
	payload := []byte(`{"type":"NEW_PRIVATE_MESSAGE"}`)

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.WritePayload(payload)
		}()
	}

	scanner := bufio.NewScanner(client)
	for i := 0; i < writers; i++ {
		if !scanner.Scan() {
			t.Fatalf("expected %d frames, got %d (err %v)", writers, i, scanner.Err())
		}
		if got := scanner.Text(); got != string(payload) {
			t.Fatalf("frame %d interleaved: %q", i, got)
		}
	}
	wg.Wait()
}

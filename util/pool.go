package util

import "sync"

// PayloadSize is the size of one traffic-generation payload block.
const PayloadSize = 1024

// payloadPool provides reusable payload buffers for the traffic
// generation hot path, reducing GC pressure at high packet rates.
var payloadPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, PayloadSize)
		return &buf
	},
}

// GetPayload retrieves a payload buffer from the pool.  Callers must
// return it with [PutPayload] when finished.
func GetPayload() *[]byte {
	return payloadPool.Get().(*[]byte)
}

// PutPayload returns a payload buffer to the pool for reuse.
func PutPayload(buf *[]byte) {
	if buf == nil {
		return
	}
	payloadPool.Put(buf)
}

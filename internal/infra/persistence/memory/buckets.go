package memory

import (
	"encoding/json"
	"fmt"
)

// Snapshot bucket names used by the durable backends.
const (
	BucketDrugs = "drugs"
	BucketOrder = "order"
)

// Buckets lists the snapshot buckets in write order.
var Buckets = []string{BucketDrugs, BucketOrder}

// EncodeBucket marshals one bucket of the snapshot.
func (s Snapshot) EncodeBucket(bucket string) ([]byte, error) {
	switch bucket {
	case BucketDrugs:
		return json.Marshal(s.Drugs)
	case BucketOrder:
		return json.Marshal(s.Order)
	default:
		return nil, fmt.Errorf("unknown bucket %q", bucket)
	}
}

// DecodeBucket fills one bucket of the snapshot from payload. Unknown buckets
// are ignored so older databases keep loading.
func (s *Snapshot) DecodeBucket(bucket string, payload []byte) error {
	if len(payload) == 0 {
		return nil
	}
	var target any
	switch bucket {
	case BucketDrugs:
		target = &s.Drugs
	case BucketOrder:
		target = &s.Order
	default:
		return nil
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return fmt.Errorf("decode %s: %w", bucket, err)
	}
	return nil
}

package httpmiddleware

import "testing"

func TestSimpleTokenBucketExhausts(t *testing.T) {
	l := NewSimpleTokenBucket(3, 3)
	for i := 0; i < 3; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("1.2.3.4") {
		t.Fatal("request over capacity should be blocked")
	}
}

func TestSimpleTokenBucketPerKey(t *testing.T) {
	l := NewSimpleTokenBucket(1, 1)
	if !l.Allow("a") {
		t.Fatal("first request for a should pass")
	}
	if !l.Allow("b") {
		t.Fatal("b has its own bucket")
	}
	if l.Allow("a") {
		t.Fatal("a is exhausted")
	}
}

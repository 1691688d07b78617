package core

import (
	"context"
	"testing"
	"time"

	"recipebook/pkg/domain"
)

type stubClock struct{ t time.Time }

func (s stubClock) Now() time.Time { return s.t }

type captureLogger struct{ calls []string }

func (c *captureLogger) Debug(msg string, _ ...any) { c.calls = append(c.calls, "d:"+msg) }
func (c *captureLogger) Info(msg string, _ ...any)  { c.calls = append(c.calls, "i:"+msg) }
func (c *captureLogger) Warn(msg string, _ ...any)  { c.calls = append(c.calls, "w:"+msg) }
func (c *captureLogger) Error(msg string, _ ...any) { c.calls = append(c.calls, "e:"+msg) }

func (c *captureLogger) has(call string) bool {
	for _, got := range c.calls {
		if got == call {
			return true
		}
	}
	return false
}

func sampleDrug(name string, price float64, ingredients ...domain.Ingredient) Drug {
	return Drug{Name: name, DrugType: domain.DrugTypeWeed, BasePrice: price, Ingredients: ingredients}
}

func mustCreate(t *testing.T, svc *Service, d Drug) Drug {
	t.Helper()
	created, _, err := svc.CreateDrug(context.Background(), d)
	if err != nil {
		t.Fatalf("create %s: %v", d.Name, err)
	}
	return created
}

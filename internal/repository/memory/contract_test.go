package memory_test

import (
	"testing"

	"github.com/vedran77/lawnpool/internal/repository"
	"github.com/vedran77/lawnpool/internal/repository/contracttest"
	"github.com/vedran77/lawnpool/internal/repository/memory"
)

func TestContract_Memory(t *testing.T) {
	contracttest.RunAll(t, func(t *testing.T) *repository.Store {
		t.Helper()
		return memory.NewStore()
	})
}

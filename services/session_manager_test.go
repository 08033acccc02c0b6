package services

import (
	"sync"
	"testing"

	"galaxykiro/repository"

	"github.com/stretchr/testify/assert"
)

func TestSessionManager(t *testing.T) {
	newManager := func(t *testing.T) *SessionManager {
		catalog, err := NewAssessmentCatalog()
		assert.NoError(t, err)
		return NewSessionManager(catalog, repository.NewMemoryProgressStore())
	}

	t.Run("Scenario 1: Same pair always gets the same engine", func(t *testing.T) {
		manager := newManager(t)

		first, err := manager.Engine("potential-quiz", "user1")
		assert.NoError(t, err)
		second, err := manager.Engine("potential-quiz", "user1")
		assert.NoError(t, err)
		assert.Same(t, first, second)
	})

	t.Run("Scenario 2: Different pairs get isolated engines", func(t *testing.T) {
		manager := newManager(t)

		a, _ := manager.Engine("potential-quiz", "user1")
		b, _ := manager.Engine("potential-quiz", "user2")
		c, _ := manager.Engine("decision-style", "user1")
		assert.NotSame(t, a, b)
		assert.NotSame(t, a, c)

		// State stays per pair.
		a.InitializeAssessment("user1")
		assert.NoError(t, a.SubmitResponse("q_morning", "ritual", 5))
		assert.Nil(t, b.State())
	})

	t.Run("Scenario 3: Unknown assessment or empty user is rejected", func(t *testing.T) {
		manager := newManager(t)

		_, err := manager.Engine("no-such-assessment", "user1")
		assert.Error(t, err)

		_, err = manager.Engine("potential-quiz", "")
		assert.Error(t, err)
	})

	t.Run("Scenario 4: Drop releases the engine for a fresh start", func(t *testing.T) {
		manager := newManager(t)

		first, _ := manager.Engine("potential-quiz", "user1")
		first.InitializeAssessment("user1")
		manager.Drop("potential-quiz", "user1")

		second, _ := manager.Engine("potential-quiz", "user1")
		assert.NotSame(t, first, second)
		assert.Nil(t, second.State())
	})

	t.Run("Scenario 5: Concurrent requests for one pair converge on one engine", func(t *testing.T) {
		manager := newManager(t)

		var wg sync.WaitGroup
		engines := make([]*AssessmentEngine, 10)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				engine, err := manager.Engine("potential-quiz", "user1")
				assert.NoError(t, err)
				engines[n] = engine
			}(i)
		}
		wg.Wait()

		for i := 1; i < 10; i++ {
			assert.Same(t, engines[0], engines[i])
		}
	})
}

package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyAbsenceSignatures(t *testing.T) {
	classifier := NewClassifier(nil)

	tests := []struct {
		name string
		err  error
	}{
		{"openzeppelin legacy", errors.New("execution reverted: ERC721: invalid token ID")},
		{"owner query", errors.New("execution reverted: ERC721: owner query for nonexistent token")},
		{"custom error", errors.New("execution reverted: ERC721NonexistentToken(42)")},
		{"plain message", errors.New("execution reverted: token does not exist")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			decision := classifier.Classify(tc.err)
			assert.Equal(t, ClassAbsent, decision.Class)
			assert.False(t, decision.IsTransient())
		})
	}
}

func TestClassifyCustomAbsenceTokens(t *testing.T) {
	classifier := NewClassifier([]string{"NO SUCH TOKEN"})

	decision := classifier.Classify(errors.New("execution reverted: no such token"))
	assert.Equal(t, ClassAbsent, decision.Class)

	// The defaults no longer apply once a custom set is configured.
	decision = classifier.Classify(errors.New("execution reverted: ERC721: invalid token ID"))
	assert.Equal(t, ClassTransient, decision.Class)
}

func TestClassifyUnknownErrorsDefaultToTransient(t *testing.T) {
	classifier := NewClassifier(nil)

	decision := classifier.Classify(errors.New("connection reset by peer"))
	assert.Equal(t, ClassTransient, decision.Class)
	assert.True(t, decision.IsTransient())
}

func TestClassifyContextErrors(t *testing.T) {
	classifier := NewClassifier(nil)

	assert.Equal(t, ClassFatal, classifier.Classify(context.Canceled).Class)
	assert.Equal(t, ClassTransient, classifier.Classify(context.DeadlineExceeded).Class)

	wrapped := fmt.Errorf("owner call: %w", context.Canceled)
	assert.Equal(t, ClassFatal, classifier.Classify(wrapped).Class)
}

func TestClassifyNilError(t *testing.T) {
	classifier := NewClassifier(nil)

	assert.Equal(t, ClassFatal, classifier.Classify(nil).Class)
}

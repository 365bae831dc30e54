package usecase

// Exported for testing
var (
	StripCodeFence  = stripCodeFence
	RefactorPrompt  = refactorPrompt
	TooLargeMessage = tooLargeMessage
)

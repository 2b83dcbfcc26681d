// Package domain contains the core business entities for the survey
// fine-tuning pipeline: surveys and their XML documents, questions,
// conversation-format training examples, and the batch reports produced
// by every pipeline stage.
//
// The domain layer has no dependencies on adapters or external services.
package domain

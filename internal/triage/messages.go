package triage

// Fixed English surface strings. The greeting carries the banner marker and
// the acknowledgment carries the ack phrase that the transcript inspector
// keys off; reword them only together with the markers in transcript.go.
const (
	msgPromptForSymptom = "Please describe your symptoms to get started."
	msgGreeting         = "👋 Hello! I'm your Smart Symptom Checker. Please describe your symptoms in detail."
	msgRejectInput      = "🤔 Please describe your symptoms or health concerns in more detail."
	msgClarify          = "I understand your health concern. Let me ask some questions to help assess your condition."
	msgFallback         = "Please describe your main symptom so I can help assess your condition."

	ackBodyFmt = ackPhrase + ": %s\n\nLet me ask some targeted questions to help assess your condition."
)

package prompts

const systemInstructions = `You are a helpful assistant that evaluates documents.`

const evaluateInstructions = `You are evaluating a tender response against the evaluation criteria below.

Personal and commercially sensitive details in the document have been replaced with labels such as [REDACTED NAME] or [REDACTED COMPANY]. Treat these labels as placeholders and never attempt to infer the original values. References to the evaluating organization are left intact so prior relationships can be taken into account.

Score every scored criterion from 0 to 10, where 0 means the criterion is not addressed and 10 means it is addressed fully with strong supporting evidence. Answer every Yes/No criterion with exactly Yes or No. Where a criterion has sub-criteria, assess each one and let them inform the criterion score. Cite page numbers using the (Page N) markers where they appear.`

// Instructions returns the default evaluation instructions.
func Instructions() string {
	return evaluateInstructions
}

// System returns the default system prompt.
func System() string {
	return systemInstructions
}

// Package normalize turns raw LLM completions into plain, consistently
// paragraphed text.
//
// A Normalizer is an ordered list of textual rewrite rules applied left to right
// over the whole string, followed by a final trim. The rules are a heuristic, not a
// markdown parser: emphasis markers are removed wherever they appear, including
// literal asterisks in user content.
package normalize

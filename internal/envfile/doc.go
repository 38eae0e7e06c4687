// Package envfile reads environment files into ordered key/value sets and
// compares them by key.
//
// Dotenv parsing rules:
//
//   - Each line is trimmed; empty lines and lines starting with # are skipped
//   - Lines without = are skipped
//   - The key is the trimmed text before the first =, the value the trimmed rest
//   - Quotes and trailing comments are kept as part of the value
//   - A repeated key keeps its first position and its last value
//
// Files with a .json, .yaml, .yml or .toml extension can be decoded as
// structured documents instead; nested tables contribute dotted keys (db.host).
// ParseFileAs lets callers choose the format when the extension comes from a
// user-chosen name rather than a fixed naming convention.
package envfile

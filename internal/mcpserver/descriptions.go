package mcpserver

// Tool descriptions with interpretation guidance for LLMs.

func describeTimeline() string {
	return `Mines a git repository's history and reports per-commit code quality metrics as a timeline.

USE WHEN:
- Checking whether a codebase is getting harder to maintain over time
- Finding the commits where complexity jumped
- Comparing quality before and after a refactoring or release window

INTERPRETING RESULTS:
- complexity: summed cyclomatic complexity of the source files touched by the commit
- complexity > 20 is high, > 15 elevated, > 10 moderate
- coupling: mean 0-10 score of external imports and internal cross references
- maintainability_index: 0-100, >= 85 excellent, >= 70 good, >= 50 fair, below 50 critical
- code_smells: heuristic count (complex functions, duplication, unused names, deep nesting, long parameter lists, generic names)
- summary.complexity_direction compares the first and last commit; complexity_slope is the least-squares trend per commit

METRICS RETURNED:
- commits: hash, date, author, complexity, coupling, maintainability_index, lines_of_code, code_smells, functions_count, avg_function_length, files_modified
- summary: commit count, averages, maximum complexity, total smells, trend direction and regression slopes
- Commits that touch no matching source files are omitted`
}

package prompts

// outputSpec is formatted with the document name and the delimiter.
const outputSpec = `Respond in two parts.

Part 1 is an HTML report with one section per criterion in this structure:

<h2><b>Criterion Name (Weighting%%)</b></h2> ⭐ Score: X/10<br><br><b>📌 Evaluation Summary:</b><br><ul><li>Key point 1</li><li>Key point 2</li></ul><br><b>📈 Strengths:</b><br><ul><li>Strength 1</li><li>Strength 2</li></ul><br><b>💡 Weaknesses:</b><br><ul><li>Weakness suggestion 1</li><li>Weakness suggestion 2</li></ul>

For Yes/No criteria replace the score line with ✅ Answer: Yes or ❌ Answer: No.

Part 2 starts on its own line with the exact text "%[2]s" followed by a JSON array with one object per criterion:

[
  {
    "Criterion": "<criterion name exactly as listed>",
    "Weighting": <weighting number>,
    "%[1]s Score": <0-10>,
    "Justification": "<one or two sentences>",
    "Sub-Criteria": [
      {"name": "<sub-criterion name>", "score": <0-10>, "comments": ["<comment>"]}
    ]
  },
  {
    "Criterion": "<yes/no criterion name>",
    "%[1]s Yes/No": "Yes",
    "Justification": "<one or two sentences>"
  }
]

Field constraints:
- Criterion: copy the criterion name exactly as it appears in the criteria list.
- "%[1]s Score": present only for scored criteria, a number between 0 and 10.
- "%[1]s Yes/No": present only for Yes/No criteria, either "Yes" or "No".
- Sub-Criteria: include only when the criterion lists sub-criteria.

Behavioral constraints:
- Include every criterion exactly once
- Write nothing after the JSON array
- Do not wrap the JSON array in markdown fencing`

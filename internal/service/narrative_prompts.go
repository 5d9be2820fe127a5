package service

const storyAnalysisPromptTemplate = `
You are an expert career coach and personality psychologist. Analyze the story a candidate wrote in answer to a prompt.

Prompt type: %s
Prompt: %q
Story: %q

Return ONLY a strict JSON object with this shape:
{
  "summary": "<2-3 sentence summary written in third person>",
  "category": "<one word category such as achievement, innovation, teamwork, learning, leadership, passion, values, helping, challenge>",
  "themes": ["<2 to 5 short theme keywords>"],
  "skills": ["<3 to 7 demonstrated skills>"],
  "trait_signals": {
    "openness": <0..1>,
    "conscientiousness": <0..1>,
    "extraversion": <0..1>,
    "agreeableness": <0..1>,
    "neuroticism": <0..1>
  }
}
Trait signals measure how strongly the story shows each Big Five trait as named. Do not add commentary.
`

const bigFivePromptTemplate = `
You are a personality psychologist scoring the Big Five (OCEAN) traits from narrative evidence.
Read the candidate's stories below and estimate each trait on a 0-100 scale, where a high score always means more of the trait as named (high neuroticism means more emotional reactivity).

Return ONLY a strict JSON object:
{
  "openness": <0..100>,
  "conscientiousness": <0..100>,
  "extraversion": <0..100>,
  "agreeableness": <0..100>,
  "neuroticism": <0..100>,
  "confidence": <0..1, how much evidence the stories give>,
  "reasoning": "<one short paragraph>",
  "derived_labels": {
    "workStyle": "...", "communicationStyle": "...", "leadershipStyle": "...",
    "motivationType": "...", "decisionMaking": "..."
  }
}

Stories:
%s
`

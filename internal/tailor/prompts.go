package tailor

// Prompt fragments localized to the language of the job offer, so the model
// answers in the same language the resume will be rendered in.

var promptHeader = map[Language]string{
	English: "You are a resume writing expert.",
	French:  "Vous êtes un expert en rédaction de CV.",
	Spanish: "Eres un experto en redacción de CV.",
}

var promptOfferSection = map[Language]string{
	English: "JOB OFFER:",
	French:  "OFFRE D'EMPLOI:",
	Spanish: "OFERTA DE EMPLEO:",
}

var titleInstruction = map[Language]string{
	English: "Extract the job title from this offer. Return ONLY the title, nothing else.",
	French:  "Extrayez l'intitulé du poste de cette offre. Retournez UNIQUEMENT le titre, rien d'autre.",
	Spanish: "Extrae el título del puesto de esta oferta. Devuelve SOLO el título, nada más.",
}

var summaryInstruction = map[Language]string{
	English: "Write a 4-5 line profile paragraph highlighting the most relevant points for this offer. Use keywords from the offer. Be specific and impactful. Return ONLY the paragraph without any preface or comments.",
	French:  "Rédigez un paragraphe de 4-5 lignes mettant en avant les points les plus pertinents pour cette offre. Utilisez les mots-clés de l'offre. Soyez précis et percutant. Retournez UNIQUEMENT le paragraphe sans préface ni commentaires.",
	Spanish: "Escribe un párrafo de 4-5 líneas destacando los puntos más relevantes para esta oferta. Usa palabras clave de la oferta. Sé específico e impactante. Devuelve SOLO el párrafo sin prefacio ni comentarios.",
}

const experiencesInstruction = `Select the 2-3 MOST relevant experiences and adapt missions to match the offer.
For each experience, keep 4-5 detailed missions showcasing requested competencies.

IMPORTANT: Use REAL values from the JSON (real company names, cities, dates).

Return ONLY a valid JSON array of objects with this schema:
[
  {
    "company": "Exact company name",
    "location": "Exact city",
    "role": "Exact role title",
    "dates": "Real dates",
    "missions": ["detailed mission 1", "detailed mission 2", "detailed mission 3", "detailed mission 4"]
  }
]`

const skillsMarkupInstruction = `Select the relevant skills for this offer (8-10 per category). Prioritize skills mentioned in the offer.
Return ONLY this exact HTML-like format:
<b>Technical:</b> skill1, skill2, skill3, skill4, skill5, skill6, skill7, skill8<br/>
<b>Management & Methods:</b> skill1, skill2, skill3, skill4, skill5, skill6`

const skillsJSONInstruction = `Select the relevant skills for this offer (8-10 per category). Prioritize skills mentioned in the offer.
Return ONLY a valid JSON object with this schema:
{
  "technical": ["skill1", "skill2"],
  "methodological": ["skill1", "skill2"]
}`

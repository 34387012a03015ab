package llm

import "fmt"

// The instruction block is a fixed contract with the model: output schema,
// token normalization (uppercase, underscore-joined), single-token competenze,
// DD/MM/YYYY birth date, JSON object with no surrounding prose.
const promptTemplate = `Analizza il seguente CV e estrai le informazioni in formato JSON strutturato.
Esempio di output:
{
    "nome": "Mario",
    "cognome": "Rossi",
    "citta": "Milano",
    "data_nascita": "15/05/1990",
    "email": "mario.rossi@gmail.com",
    "cellulare": "333123456",
    "anni_esperienza": 5,
    "competenze": "Analista_Funzionale",
    "tools": ["ACTIVE_DIRECTORY", "BIZTALK", "JIRA"],
    "database": ["MYSQL", "POSTGRESQL", "MONGODB"],
    "piattaforme": ["AWS", "AZURE", "GOOGLE_CLOUD"],
    "sistemi_operativi": ["WINDOWS", "LINUX", "MACOS"],
    "linguaggi_programmazione": ["PYTHON", "JAVA", "C++"]
}

IMPORTANTE:
- Estrai TUTTE le tecnologie e competenze IT menzionate
- Separa le competenze nelle categorie corrette (tools, database, piattaforme, sistemi_operativi, linguaggi_programmazione), usa underscore (_) per separare le parole in un singolo valore array vedi esempio sopra
- Calcola gli anni di esperienza basandoti su tutte le esperienze lavorative IT
- Tutti i nomi di tecnologie devono essere in MAIUSCOLO
- La data di nascita DEVE essere nel formato DD/MM/YYYY
- il campo "competenze" indica in pratica il titolo/ruolo, quindi ha solo un valore, NON è un array e NON deve avere spazi tra parole usa underscore (_), vedi esempio sopra
- il campo "citta" è il luogo di residenza, se ha spazi usa underscore (_), es: San_Giovanni_in_Ponente
- DEVI rispondere SOLO con un oggetto JSON valido, niente testo prima o dopo

CV da analizzare:
%s`

func buildPrompt(cvText string) string {
	return fmt.Sprintf(promptTemplate, cvText)
}

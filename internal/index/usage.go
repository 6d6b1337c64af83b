package index

// RecordSkillUse bumps the usage counters for one skill invocation.
// The per-skill session list is capped at sessionCap most-recent ids.
func (idx *Index) RecordSkillUse(skill, sessionID, date string, sessionCap int) {
	idx.ensureMaps()

	u, ok := idx.Usage.Skills[skill]
	if !ok {
		u = SkillUsage{FirstUsed: date}
	}
	u.Count++
	u.LastUsed = date

	seen := false
	for _, id := range u.Sessions {
		if id == sessionID {
			seen = true
			break
		}
	}
	if !seen {
		u.Sessions = append(u.Sessions, sessionID)
		if sessionCap > 0 && len(u.Sessions) > sessionCap {
			u.Sessions = u.Sessions[len(u.Sessions)-sessionCap:]
		}
	}

	idx.Usage.Skills[skill] = u
}

// RecordLearningShown bumps the displayed counter for a learning key.
func (idx *Index) RecordLearningShown(key, date string) {
	idx.ensureMaps()

	s := idx.Usage.LearningsShown[key]
	s.Count++
	s.LastShown = date
	idx.Usage.LearningsShown[key] = s
}

package game

// Audience is a set of characters that should receive a message.
type Audience interface {
	ForEachListener(fn func(charId string))
}

// Publisher delivers rendered output to every listener of an audience except
// those excluded.
type Publisher interface {
	Publish(to Audience, exclude []string, data []byte) error
}

// Audiences combines several audiences into one.
type Audiences []Audience

func (a Audiences) ForEachListener(fn func(charId string)) {
	for _, aud := range a {
		if aud != nil {
			aud.ForEachListener(fn)
		}
	}
}

// Recipients flattens an audience into a list of distinct character ids,
// skipping any in exclude.
func Recipients(to Audience, exclude []string) []string {
	if to == nil {
		return nil
	}
	skip := make(map[string]struct{}, len(exclude))
	for _, id := range exclude {
		skip[id] = struct{}{}
	}
	var ids []string
	to.ForEachListener(func(id string) {
		if _, ok := skip[id]; ok {
			return
		}
		skip[id] = struct{}{}
		ids = append(ids, id)
	})
	return ids
}

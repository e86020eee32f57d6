package hook

import "slices"

// repair re-synchronizes every active frame after the priority set changed.
//
// added is the priority that was just registered and hinted is true only when
// that priority did not exist before the registration. Removals and clears
// call repair with hinted false.
func (r *Registry) repair(added int, hinted bool) {
	next := r.priorities

	// Nothing left to run: every pass ends at its next advance.
	if len(next) == 0 {
		for _, f := range r.frames {
			f.reset(nil)
		}
		return
	}

	lowest := next[0]
	for depth, f := range r.frames {
		old, ok := f.at()
		if !ok {
			continue
		}

		f.reset(slices.Clone(next))

		// The level this pass stopped at is gone and everything left is
		// higher. Keep the old level in front so nothing is skipped; it
		// holds no callbacks and is advanced over.
		if old < lowest {
			f.snapshot = slices.Insert(f.snapshot, 0, old)
			r.logger.Debug().
				Str("hook", r.name).
				Int("depth", depth).
				Int("priority", old).
				Msg("iteration kept removed level")
			continue
		}

		for p, ok := f.at(); ok && p < old; p, ok = f.advance() {
		}

		// A level created at the priority this pass is running must not be
		// entered again during the same pass.
		if hinted && f.tracked && added == f.current {
			f.stepBack(added)
		}

		r.logger.Debug().
			Str("hook", r.name).
			Int("depth", depth).
			Int("priority", old).
			Int("cursor", f.pos).
			Msg("iteration repaired")
	}
}

// Package follows keeps track of which creators and courses a user follows.
//
// A creator-level follow covers every course of that creator. Course-level
// follows cover one course. Toggling a creator with nothing of theirs followed
// adds a single creator follow. Toggling a creator who is followed at all, even
// through one course, unfollows the creator and all of their courses.
// Unfollowing a course that is only covered by its creator splits the creator
// follow into follows of the remaining courses. Query answers the read-side
// questions the dashboard renders from.
package follows

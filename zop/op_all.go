package zop

// entry registers an opcode for versions from..to inclusive.
type entry struct {
	from, to uint8
	kind     Kind
	number   uint8
	name     string
	flags    Flags
}

const (
	store  = HasStore
	branch = HasBranch
	text   = HasText
	call   = IsCall
	ret    = IsReturn
	double = DoubleVariableOperandCount
	byref  = FirstOperandByRef
	input  = ReadsInput
)

var entries = []entry{
	// 2OP
	{1, 8, TwoOp, 0x01, "je", branch},
	{1, 8, TwoOp, 0x02, "jl", branch},
	{1, 8, TwoOp, 0x03, "jg", branch},
	{1, 8, TwoOp, 0x04, "dec_chk", branch | byref},
	{1, 8, TwoOp, 0x05, "inc_chk", branch | byref},
	{1, 8, TwoOp, 0x06, "jin", branch},
	{1, 8, TwoOp, 0x07, "test", branch},
	{1, 8, TwoOp, 0x08, "or", store},
	{1, 8, TwoOp, 0x09, "and", store},
	{1, 8, TwoOp, 0x0A, "test_attr", branch},
	{1, 8, TwoOp, 0x0B, "set_attr", 0},
	{1, 8, TwoOp, 0x0C, "clear_attr", 0},
	{1, 8, TwoOp, 0x0D, "store", byref},
	{1, 8, TwoOp, 0x0E, "insert_obj", 0},
	{1, 8, TwoOp, 0x0F, "loadw", store},
	{1, 8, TwoOp, 0x10, "loadb", store},
	{1, 8, TwoOp, 0x11, "get_prop", store},
	{1, 8, TwoOp, 0x12, "get_prop_addr", store},
	{1, 8, TwoOp, 0x13, "get_next_prop", store},
	{1, 8, TwoOp, 0x14, "add", store},
	{1, 8, TwoOp, 0x15, "sub", store},
	{1, 8, TwoOp, 0x16, "mul", store},
	{1, 8, TwoOp, 0x17, "div", store},
	{1, 8, TwoOp, 0x18, "mod", store},
	{4, 8, TwoOp, 0x19, "call_2s", store | call},
	{5, 8, TwoOp, 0x1A, "call_2n", call},
	{5, 8, TwoOp, 0x1B, "set_colour", 0},
	{5, 8, TwoOp, 0x1C, "throw", ret},

	// 1OP
	{1, 8, OneOp, 0x00, "jz", branch},
	{1, 8, OneOp, 0x01, "get_sibling", store | branch},
	{1, 8, OneOp, 0x02, "get_child", store | branch},
	{1, 8, OneOp, 0x03, "get_parent", store},
	{1, 8, OneOp, 0x04, "get_prop_len", store},
	{1, 8, OneOp, 0x05, "inc", byref},
	{1, 8, OneOp, 0x06, "dec", byref},
	{1, 8, OneOp, 0x07, "print_addr", 0},
	{4, 8, OneOp, 0x08, "call_1s", store | call},
	{1, 8, OneOp, 0x09, "remove_obj", 0},
	{1, 8, OneOp, 0x0A, "print_obj", 0},
	{1, 8, OneOp, 0x0B, "ret", ret},
	{1, 8, OneOp, 0x0C, "jump", 0},
	{1, 8, OneOp, 0x0D, "print_paddr", 0},
	{1, 8, OneOp, 0x0E, "load", store | byref},
	{1, 4, OneOp, 0x0F, "not", store},
	{5, 8, OneOp, 0x0F, "call_1n", call},

	// 0OP
	{1, 8, ZeroOp, 0x00, "rtrue", ret},
	{1, 8, ZeroOp, 0x01, "rfalse", ret},
	{1, 8, ZeroOp, 0x02, "print", text},
	{1, 8, ZeroOp, 0x03, "print_ret", text | ret},
	{1, 8, ZeroOp, 0x04, "nop", 0},
	{1, 3, ZeroOp, 0x05, "save", branch},
	{4, 4, ZeroOp, 0x05, "save", store},
	{1, 3, ZeroOp, 0x06, "restore", branch},
	{4, 4, ZeroOp, 0x06, "restore", store},
	{1, 8, ZeroOp, 0x07, "restart", 0},
	{1, 8, ZeroOp, 0x08, "ret_popped", ret},
	{1, 4, ZeroOp, 0x09, "pop", 0},
	{5, 8, ZeroOp, 0x09, "catch", store},
	{1, 8, ZeroOp, 0x0A, "quit", 0},
	{1, 8, ZeroOp, 0x0B, "new_line", 0},
	{3, 3, ZeroOp, 0x0C, "show_status", 0},
	{3, 8, ZeroOp, 0x0D, "verify", branch},
	{5, 8, ZeroOp, 0x0F, "piracy", branch},

	// VAR
	{1, 3, VarOp, 0x00, "call", store | call},
	{4, 8, VarOp, 0x00, "call_vs", store | call},
	{1, 8, VarOp, 0x01, "storew", 0},
	{1, 8, VarOp, 0x02, "storeb", 0},
	{1, 8, VarOp, 0x03, "put_prop", 0},
	{1, 4, VarOp, 0x04, "sread", input},
	{5, 8, VarOp, 0x04, "aread", store | input},
	{1, 8, VarOp, 0x05, "print_char", 0},
	{1, 8, VarOp, 0x06, "print_num", 0},
	{1, 8, VarOp, 0x07, "random", store},
	{1, 8, VarOp, 0x08, "push", 0},
	{1, 5, VarOp, 0x09, "pull", byref},
	{6, 6, VarOp, 0x09, "pull", store},
	{7, 8, VarOp, 0x09, "pull", byref},
	{3, 8, VarOp, 0x0A, "split_window", 0},
	{3, 8, VarOp, 0x0B, "set_window", 0},
	{4, 8, VarOp, 0x0C, "call_vs2", store | call | double},
	{4, 8, VarOp, 0x0D, "erase_window", 0},
	{4, 8, VarOp, 0x0E, "erase_line", 0},
	{4, 8, VarOp, 0x0F, "set_cursor", 0},
	{4, 8, VarOp, 0x10, "get_cursor", 0},
	{4, 8, VarOp, 0x11, "set_text_style", 0},
	{4, 8, VarOp, 0x12, "buffer_mode", 0},
	{3, 8, VarOp, 0x13, "output_stream", 0},
	{3, 8, VarOp, 0x14, "input_stream", 0},
	{3, 8, VarOp, 0x15, "sound_effect", 0},
	{4, 8, VarOp, 0x16, "read_char", store | input},
	{4, 8, VarOp, 0x17, "scan_table", store | branch},
	{5, 8, VarOp, 0x18, "not", store},
	{5, 8, VarOp, 0x19, "call_vn", call},
	{5, 8, VarOp, 0x1A, "call_vn2", call | double},
	{5, 8, VarOp, 0x1B, "tokenise", 0},
	{5, 8, VarOp, 0x1C, "encode_text", 0},
	{5, 8, VarOp, 0x1D, "copy_table", 0},
	{5, 8, VarOp, 0x1E, "print_table", 0},
	{5, 8, VarOp, 0x1F, "check_arg_count", branch},

	// EXT
	{5, 8, Ext, 0x00, "save", store},
	{5, 8, Ext, 0x01, "restore", store},
	{5, 8, Ext, 0x02, "log_shift", store},
	{5, 8, Ext, 0x03, "art_shift", store},
	{5, 8, Ext, 0x04, "set_font", store},
	{6, 6, Ext, 0x05, "draw_picture", 0},
	{6, 6, Ext, 0x06, "picture_data", branch},
	{6, 6, Ext, 0x07, "erase_picture", 0},
	{6, 6, Ext, 0x08, "set_margins", 0},
	{5, 8, Ext, 0x09, "save_undo", store},
	{5, 8, Ext, 0x0A, "restore_undo", store},
	{5, 8, Ext, 0x0B, "print_unicode", 0},
	{5, 8, Ext, 0x0C, "check_unicode", store},
	{5, 8, Ext, 0x0D, "set_true_colour", 0},
	{6, 6, Ext, 0x10, "move_window", 0},
	{6, 6, Ext, 0x11, "window_size", 0},
	{6, 6, Ext, 0x12, "window_style", 0},
	{6, 6, Ext, 0x13, "get_wind_prop", store},
	{6, 6, Ext, 0x14, "scroll_window", 0},
	{6, 6, Ext, 0x15, "pop_stack", 0},
	{6, 6, Ext, 0x16, "read_mouse", 0},
	{6, 6, Ext, 0x17, "mouse_window", 0},
	{6, 6, Ext, 0x18, "push_stack", branch},
	{6, 6, Ext, 0x19, "put_wind_prop", 0},
	{6, 6, Ext, 0x1A, "print_form", 0},
	{6, 6, Ext, 0x1B, "make_menu", branch},
	{6, 6, Ext, 0x1C, "picture_table", 0},
	{6, 6, Ext, 0x1D, "buffer_screen", store},
}
